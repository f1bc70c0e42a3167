package mysql

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const testSchema = `
CREATE TABLE user (
	user_id INTEGER PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL,
	first_name TEXT,
	last_name TEXT,
	role TEXT NOT NULL
);
CREATE TABLE directoraccountexecutive (
	account_executive_id INTEGER PRIMARY KEY,
	director_id INTEGER NOT NULL
);
CREATE TABLE client (
	client_id INTEGER PRIMARY KEY,
	client_name TEXT NOT NULL,
	account_executive_id INTEGER NOT NULL,
	city TEXT,
	province TEXT,
	industry TEXT,
	created_date TEXT NOT NULL
);
CREATE TABLE product (
	product_id INTEGER PRIMARY KEY,
	product_name TEXT NOT NULL,
	product_category TEXT NOT NULL
);
CREATE TABLE opportunity (
	opportunity_id INTEGER PRIMARY KEY AUTOINCREMENT,
	client_id INTEGER NOT NULL,
	product_id INTEGER NOT NULL,
	forecast_category TEXT NOT NULL,
	probability REAL NOT NULL,
	amount REAL NOT NULL,
	created_date TEXT NOT NULL
);
CREATE TABLE signing (
	signing_id INTEGER PRIMARY KEY AUTOINCREMENT,
	client_id INTEGER NOT NULL,
	product_id INTEGER NOT NULL,
	total_contract_value REAL NOT NULL,
	start_date TEXT NOT NULL,
	end_date TEXT NOT NULL,
	fiscal_year INTEGER NOT NULL,
	fiscal_quarter INTEGER NOT NULL
);
CREATE TABLE revenue (
	revenue_id INTEGER PRIMARY KEY AUTOINCREMENT,
	client_id INTEGER NOT NULL,
	fiscal_year INTEGER NOT NULL,
	fiscal_quarter INTEGER NOT NULL,
	month INTEGER NOT NULL,
	amount REAL NOT NULL
);
CREATE TABLE win (
	win_id INTEGER PRIMARY KEY AUTOINCREMENT,
	client_id INTEGER NOT NULL,
	win_category TEXT NOT NULL,
	win_level INTEGER NOT NULL,
	win_multiplier REAL NOT NULL,
	fiscal_year INTEGER NOT NULL,
	fiscal_quarter INTEGER NOT NULL,
	UNIQUE (client_id, win_category, win_level, fiscal_year)
);
CREATE TABLE yearlytarget (
	target_id INTEGER PRIMARY KEY,
	user_id INTEGER NOT NULL,
	fiscal_year INTEGER NOT NULL,
	target_type TEXT NOT NULL,
	amount REAL NOT NULL
);
CREATE TABLE quarterlytarget (
	quarterly_target_id INTEGER PRIMARY KEY AUTOINCREMENT,
	target_id INTEGER NOT NULL,
	fiscal_quarter INTEGER NOT NULL,
	user_id INTEGER NOT NULL,
	percentage REAL NOT NULL
);
`

// newTestStorage opens a private in-memory database with the dashboard schema.
func newTestStorage(t *testing.T) (*Storage, *sql.DB) {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// every new connection would get its own empty in-memory database
	db.SetMaxOpenConns(1)

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return &Storage{db: db}, db
}

// closedStorage fails every query; used to prove short-circuits never reach the database.
func closedStorage(t *testing.T) *Storage {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	return &Storage{db: db}
}

func mustExec(t *testing.T, db *sql.DB, stmt string, args ...any) {
	t.Helper()

	_, err := db.Exec(stmt, args...)
	require.NoError(t, err)
}

func insertUser(t *testing.T, db *sql.DB, id int64, username, first, last, role string) {
	mustExec(t, db, `INSERT INTO user (user_id, username, email, first_name, last_name, role) VALUES (?, ?, ?, ?, ?, ?)`,
		id, username, username+"@example.com", first, last, role)
}

func insertClient(t *testing.T, db *sql.DB, id, aeID int64, name, province, industry string) {
	mustExec(t, db, `INSERT INTO client (client_id, client_name, account_executive_id, city, province, industry, created_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, id, name, aeID, "Toronto", province, industry, "2023-05-01")
}

func insertRevenue(t *testing.T, db *sql.DB, clientID int64, year, quarter, month int, amount float64) {
	mustExec(t, db, `INSERT INTO revenue (client_id, fiscal_year, fiscal_quarter, month, amount) VALUES (?, ?, ?, ?, ?)`,
		clientID, year, quarter, month, amount)
}

func insertOpportunity(t *testing.T, db *sql.DB, clientID int64, forecast string, probability, amount float64, created string) {
	mustExec(t, db, `INSERT INTO opportunity (client_id, product_id, forecast_category, probability, amount, created_date)
		VALUES (?, 1, ?, ?, ?, ?)`, clientID, forecast, probability, amount, created)
}

func insertSigning(t *testing.T, db *sql.DB, clientID, productID int64, tcv float64, start, end string, year, quarter int) {
	mustExec(t, db, `INSERT INTO signing (client_id, product_id, total_contract_value, start_date, end_date, fiscal_year, fiscal_quarter)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, clientID, productID, tcv, start, end, year, quarter)
}

func insertWin(t *testing.T, db *sql.DB, clientID int64, category string, level int, multiplier float64, year, quarter int) {
	mustExec(t, db, `INSERT INTO win (client_id, win_category, win_level, win_multiplier, fiscal_year, fiscal_quarter)
		VALUES (?, ?, ?, ?, ?, ?)`, clientID, category, level, multiplier, year, quarter)
}

// seedOrg builds director 1 -> AE 2 (clients 10, 11) and AE 3 (no clients); AE 4 reports to nobody.
func seedOrg(t *testing.T, db *sql.DB) {
	insertUser(t, db, 1, "shogg", "Sam", "Hogg", "director")
	insertUser(t, db, 2, "jsmith", "John", "Smith", "account-executive")
	insertUser(t, db, 3, "adoe", "Ann", "Doe", "account-executive")
	insertUser(t, db, 4, "solo", "Solo", "Rep", "account-executive")
	insertUser(t, db, 5, "root", "", "", "admin")

	mustExec(t, db, `INSERT INTO directoraccountexecutive (account_executive_id, director_id) VALUES (2, 1), (3, 1)`)

	insertClient(t, db, 10, 2, "Acme", "ON", "Retail")
	insertClient(t, db, 11, 2, "Boreal", "BC", "Healthcare")
	insertClient(t, db, 12, 4, "Cobalt", "ON", "Retail")
}
