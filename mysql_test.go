package dberrors

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestMySQLCodeKeys(t *testing.T) {
	codes, classes := mysqlCodeKeys(NativeError{Errno: 1062, State: "23000"})
	assert.Equal(t, []string{"1062"}, codes)
	assert.Equal(t, []string{"23"}, classes)

	codes, classes = mysqlCodeKeys(NativeError{Errno: 3819, State: "HY000"})
	assert.Equal(t, []string{"3819"}, codes)
	assert.Equal(t, []string{"HY"}, classes)

	codes, classes = mysqlCodeKeys(NativeError{Errno: 1048})
	assert.Equal(t, []string{"1048"}, codes)
	assert.Zero(t, classes)
}

func TestParseMySQL(t *testing.T) {
	tests := []struct {
		name     string
		native   NativeError
		expected parsed
	}{
		{
			name:     "column cannot be null",
			native:   NativeError{Errno: 1048, State: "23000", Message: "Column 'notNullableString' cannot be null"},
			expected: parsed{kind: KindNotNull, column: "notNullableString", columns: []string{"notNullableString"}},
		},
		{
			name:     "duplicate entry",
			native:   NativeError{Errno: 1062, State: "23000", Message: "Duplicate entry 'a@example.com' for key 'users.users_email_unique'"},
			expected: parsed{kind: KindUnique, table: "users", column: "email", constraint: "users_email_unique", columns: []string{"email"}},
		},
		{
			name:     "duplicate entry containing the key text",
			native:   NativeError{Errno: 1062, State: "23000", Message: "Duplicate entry 'for key 'x.y'' for key 'users.users_name_unique'"},
			expected: parsed{kind: KindUnique, table: "users", column: "name", constraint: "users_name_unique", columns: []string{"name"}},
		},
		{
			name: "foreign key with composite columns",
			native: NativeError{
				Errno:   1452,
				State:   "23000",
				Message: "Cannot add or update a child row: a foreign key constraint fails (`shop`.`order_lines`, CONSTRAINT `fk_order` FOREIGN KEY (`order_id`, `tenant_id`) REFERENCES `orders` (`id`, `tenant_id`))",
			},
			expected: parsed{kind: KindForeignKey, schema: "shop", table: "order_lines", constraint: "fk_order", columns: []string{"order_id", "tenant_id"}},
		},
		{
			name:     "foreign key without details",
			native:   NativeError{Errno: 1216, State: "23000", Message: "Cannot add or update a child row: a foreign key constraint fails"},
			expected: parsed{kind: KindForeignKey},
		},
		{
			name:     "incorrect value",
			native:   NativeError{Errno: 1366, State: "HY000", Message: "Incorrect integer value: 'abc' for column 'age' at row 1"},
			expected: parsed{kind: KindData, column: "age", columns: []string{"age"}},
		},
		{
			name:     "unmapped errno without class",
			native:   NativeError{Errno: 1213, State: "40001", Message: "Deadlock found when trying to get lock; try restarting transaction"},
			expected: parsed{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseWithBuiltin(t, DialectMySQL, tt.native))
		})
	}
}
