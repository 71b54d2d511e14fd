// Package testdb provides database fixtures for tests.
//
// GetTestDB returns a fully migrated database registered for cleanup with the
// test. By default it is a private in-memory SQLite database, so store and
// end-to-end tests need no external services. When TASKMAN_TEST_DATABASE_URL
// is set the same helper connects to that PostgreSQL instance instead and
// migrates it with the production migrations.
//
// WithTx runs a test body inside a transaction that is always rolled back:
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.GetTestDB(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        users := sqlstore.NewUserStore(tx, nil)
//	        // ...
//	    })
//	}
package testdb
