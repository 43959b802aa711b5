// Package testutil generates deterministic HR datasets for tests.
package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/KaramelBytes/attrition-cli/internal/schema"
)

// Records returns a header row followed by n synthetic employee rows. Every
// nominal and ordinal category appears once n reaches a few dozen rows, and
// every fifth row (0, 5, 10, ...) has left the company.
func Records(n int) [][]string {
	header := schema.Expected()
	out := [][]string{header}
	for i := 0; i < n; i++ {
		out = append(out, row(header, i))
	}
	return out
}

func row(header []string, i int) []string {
	voc := schema.Vocabulary
	jobLevel := 1 + i%5
	vals := map[string]string{
		"Age":                      itoa(18 + (i*7)%43),
		"Attrition":                pick(i%5 == 0, schema.Left, schema.Stayed),
		"BusinessTravel":           voc["BusinessTravel"][i%3],
		"DailyRate":                itoa(100 + (i*37)%1400),
		"Department":               voc["Department"][i%3],
		"DistanceFromHome":         itoa(1 + (i*3)%29),
		"Education":                itoa(1 + i%5),
		"EducationField":           voc["EducationField"][i%6],
		"EmployeeCount":            "1",
		"EmployeeNumber":           itoa(i + 1),
		"EnvironmentSatisfaction":  itoa(1 + (i/2)%4),
		"Gender":                   voc["Gender"][i%2],
		"HourlyRate":               itoa(30 + (i*11)%71),
		"JobInvolvement":           itoa(1 + (i/3)%4),
		"JobLevel":                 itoa(jobLevel),
		"JobRole":                  voc["JobRole"][i%9],
		"JobSatisfaction":          itoa(1 + (i+1)%4),
		"MaritalStatus":            voc["MaritalStatus"][(i/2)%3],
		"MonthlyIncome":            itoa(1000 + jobLevel*2500 + (i*131)%900),
		"MonthlyRate":              itoa(2000 + (i*997)%24000),
		"NumCompaniesWorked":       itoa(i % 10),
		"Over18":                   "Y",
		"OverTime":                 pick(i%3 == 0, "Yes", "No"),
		"PercentSalaryHike":        itoa(11 + i%15),
		"PerformanceRating":        pick(i%7 == 0, "4", "3"),
		"RelationshipSatisfaction": itoa(1 + (i/4)%4),
		"StandardHours":            "80",
		"StockOptionLevel":         itoa(i % 4),
		"TotalWorkingYears":        itoa((i * 5) % 41),
		"TrainingTimesLastYear":    itoa(i % 7),
		"WorkLifeBalance":          itoa(1 + (i*3)%4),
		"YearsAtCompany":           itoa((i * 3) % 41),
		"YearsInCurrentRole":       itoa((i * 2) % 19),
		"YearsSinceLastPromotion":  itoa(i % 16),
		"YearsWithCurrManager":     itoa((i * 5) % 18),
	}
	rec := make([]string, len(header))
	for j, h := range header {
		rec[j] = vals[h]
	}
	return rec
}

// Index returns the position of column in the header row, or -1.
func Index(records [][]string, column string) int {
	for i, h := range records[0] {
		if h == column {
			return i
		}
	}
	return -1
}

// Set overwrites one cell; row is the 0-based data row.
func Set(records [][]string, column string, row int, value string) {
	records[row+1][Index(records, column)] = value
}

// SetAll overwrites a column for every data row.
func SetAll(records [][]string, column string, value func(row int) string) {
	j := Index(records, column)
	for i := 1; i < len(records); i++ {
		records[i][j] = value(i - 1)
	}
}

// WithoutColumn returns a copy of records with column removed.
func WithoutColumn(records [][]string, column string) [][]string {
	j := Index(records, column)
	out := make([][]string, len(records))
	for i, rec := range records {
		cp := append([]string(nil), rec[:j]...)
		out[i] = append(cp, rec[j+1:]...)
	}
	return out
}

// WriteCSV writes records to dir/name and returns the path.
func WriteCSV(t testing.TB, dir, name string, records [][]string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("create %s: %v", p, err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close %s: %v", p, err)
	}
	return p
}

func itoa(i int) string { return strconv.Itoa(i) }

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
