package executor

import "testing"

func TestContainsTxControl(t *testing.T) {
	cases := []struct {
		name       string
		statements []string
		want       bool
	}{
		{"plain ddl", []string{`CREATE TABLE "users" ("id" INTEGER)`}, false},
		{"alter", []string{`ALTER TABLE "users" ADD COLUMN "name" TEXT`}, false},
		{"recreation sequence", []string{
			"PRAGMA foreign_keys = OFF",
			"BEGIN TRANSACTION",
			`CREATE TABLE "_new" ("id" INTEGER)`,
			"COMMIT",
			"PRAGMA foreign_keys = ON",
		}, true},
		{"lowercase begin", []string{"begin transaction"}, true},
		{"leading whitespace", []string{"  PRAGMA foreign_keys = OFF"}, true},
		{"begin inside a string is not control", []string{`INSERT INTO t VALUES ('BEGIN')`}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := containsTxControl(tc.statements); got != tc.want {
				t.Errorf("containsTxControl = %v, want %v", got, tc.want)
			}
		})
	}
}
