// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package dataset

// Column names of the employee dataset.
const (
	ColAge        = "age"
	ColSalary     = "salary"
	ColDepartment = "department"
	ColProfile    = "profile"

	ColAddress = "address"
	ColPhone   = "phone"
	ColEmail   = "email"

	ColAddressLength  = "address_length"
	ColSalaryCategory = "salary_category"
	ColAgeGroup       = "age_group"
)

// UnknownDepartment fills missing department cells.
const UnknownDepartment = "Unknown"

// Output file names written by Job.
const (
	CleanedFile      = "cleaned_data.csv"
	TransformedFile  = "transformed_data.csv"
	DepartmentsFile  = "department_statistics.csv"
	FeatureStoreFile = "feature_store_data.csv"
)

// profileKeys are lifted out of the profile JSON column.
var profileKeys = []string{ColAddress, ColPhone, ColEmail}
