// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/fsctl/fsctl/internal/meta"
)

const bashCompletionScript = `# bash completion for fsctl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_fsctl()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "wait ingest prep run report objprep completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--color -c --filter -f --output -o --padding --sort -s --titles -t"
    local settings="--resource -r --poll-interval --max-attempts --max-parallel-writers -w --region --profile --s3-endpoint"

    case "$cmd" in
        wait)
            local opts="$common $settings --dry-run --fail-fast"
            ;;
        ingest)
            local opts="$common $settings --input -i --output-dir -d --dry-run --fail-fast"
            ;;
        prep)
            local opts="$common $settings --input -i --output-dir -d --rows"
            ;;
        run)
            local opts="$common $settings --input -i --output-dir -d --dry-run --fail-fast"
            ;;
        report)
            local opts="$common --resource -r --all -a --purge"
            ;;
        objprep)
            local opts="$common $settings"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json yaml" -- "$cur") )
        return 0
    fi

    if [[ "$prev" == "--input" || "$prev" == "-i" || "$prev" == "--output-dir" || "$prev" == "-d" ]]; then
        COMPREPLY=( $(compgen -f -- "$cur") )
        return 0
    fi

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _fsctl fsctl
`

const zshCompletionScript = `#compdef fsctl

_fsctl() {
  local -a cmds
  cmds=(
    'wait:wait for a feature group to become ready'
    'ingest:ingest a transformed dataset into a feature group'
    'prep:clean and transform the employee dataset'
    'run:preprocess the dataset and ingest it into the feature group'
    'report:show saved ingestion reports'
    'objprep:forward fill a raw CSV object and derive new_feature'
    'completion:generate shell completion script'
  )

  local -a common settings
  common=(
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[row filters]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json yaml)'
  '--padding[spaces between text columns]:padding'
  '(-s --sort)'{-s,--sort}'[sort columns]:columns'
  '(-t --titles)'{-t,--titles}'[show titles]'
  )
  settings=(
  '(-r --resource)'{-r,--resource}'[feature group name]:name'
  '--poll-interval[seconds between readiness checks]:seconds'
  '--max-attempts[readiness checks before giving up]:attempts'
  '(-w --max-parallel-writers)'{-w,--max-parallel-writers}'[concurrent record writers]:writers'
  '--region[AWS region]:region'
  '--profile[AWS shared config profile]:profile'
  '--s3-endpoint[S3 compatible endpoint]:url'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'fsctl commands' cmds
    return
  fi

  case $words[2] in
    wait)
      _arguments -C $common $settings '--dry-run[skip AWS]' '--fail-fast[stop on failed creation]'
      ;;
    ingest|run)
      _arguments -C $common $settings \
        '(-i --input)'{-i,--input}'[input CSV]:file:_files' \
        '(-d --output-dir)'{-d,--output-dir}'[output directory]:dir:_directories' \
        '--dry-run[skip AWS]' '--fail-fast[stop on failed creation]'
      ;;
    prep)
      _arguments -C $common $settings \
        '(-i --input)'{-i,--input}'[input CSV]:file:_files' \
        '(-d --output-dir)'{-d,--output-dir}'[output directory]:dir:_directories' \
        '--rows[print transformed records]'
      ;;
    report)
      _arguments -C $common \
        '(-r --resource)'{-r,--resource}'[feature group name]:name' \
        '(-a --all)'{-a,--all}'[list every report]' \
        '--purge[delete reports older than hours]:hours'
      ;;
    objprep)
      _arguments -C $common $settings '*:object:_files'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _fsctl fsctl
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(stdout(cmd), bashCompletionScript)
	case "zsh":
		fmt.Fprint(stdout(cmd), zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(stdout(cmd), zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(stdout(cmd), bashCompletionScript)
		default:
			fmt.Fprintln(os.Stderr, "usage: fsctl completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "fsctl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
