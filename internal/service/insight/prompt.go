package insight

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Prompt is one request to a text-completion model.
type Prompt struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int32
}

const schemaPrompt = `You are an expert data analyst. Write one MySQL SELECT statement that answers the user's
question about sales performance, using only the tables below.

client(client_id, client_name, account_executive_id -> user.user_id, city, province (Canadian code such
as 'ON', 'BC'), industry, created_date)
user(user_id, username, email, first_name, last_name, role in ('director', 'account-executive', 'admin'))
directoraccountexecutive(account_executive_id -> user.user_id, director_id -> user.user_id)
product(product_id, product_name, product_category such as 'gcp-core', 'data-analytics', 'cloud-security')
opportunity(opportunity_id, opportunity_name, client_id, product_id, forecast_category in ('omit',
'pipeline', 'upside', 'commit', 'closed-won'), sales_stage, close_date, probability 0-100, amount,
created_date, last_modified_date)
signing(signing_id, opportunity_id, client_id, product_id, total_contract_value, incremental_acv,
start_date, end_date, signing_date, fiscal_year, fiscal_quarter 1-4)
revenue(revenue_id, opportunity_id, client_id, signing_id nullable, product_id, fiscal_year,
fiscal_quarter 1-4, month 1-12, amount)
win(win_id, client_id, opportunity_id, product_id, win_category in ('gcp', 'da'), win_level,
win_multiplier 0.5 or 1.0, fiscal_year, fiscal_quarter 1-4)
yearlytarget(target_id, user_id, fiscal_year, target_type in ('revenue', 'signings', 'wins', 'pipeline'),
amount)
quarterlytarget(quarterly_target_id, target_id -> yearlytarget, fiscal_quarter, user_id, percentage)

Rules:
- Read-only. Never write INSERT, UPDATE, DELETE, DROP, REPLACE or any DDL.
- Return the bare statement: no Markdown, no code fences, no explanation.
- Use lowercase unquoted table and column names.
- Join lookup tables so results carry names (client_name, product_name, first_name and last_name)
  rather than bare ids.
- Rank performance with SUM(amount) or COUNT(*) as the question implies.
- Synonyms: deal = opportunity, customer = client, rep = account executive.
- "This year" means fiscal_year = %[1]d and "last year" means fiscal_year = %[2]d. Q1 to Q4 map to
  fiscal_quarter 1 to 4; always filter fiscal_year too when a quarter is named.

Example
Q: Which clients brought the most revenue in Q1 this year?
A: SELECT client.client_name, SUM(revenue.amount) AS total_revenue FROM revenue JOIN client ON
revenue.client_id = client.client_id WHERE revenue.fiscal_quarter = 1 AND revenue.fiscal_year = %[1]d
GROUP BY client.client_name ORDER BY total_revenue DESC`

const summaryPrompt = "You are a helpful assistant that summarizes query results for business insights."

func sqlPrompt(question string, referenceYear int) Prompt {
	return Prompt{
		System:      fmt.Sprintf(schemaPrompt, referenceYear, referenceYear-1),
		User:        "Convert this into a MySQL query: " + question,
		Temperature: 0,
		MaxTokens:   300,
	}
}

func summarize(question string, rows []map[string]any) Prompt {
	data, err := json.Marshal(rows)
	if err != nil {
		data = []byte(fmt.Sprint(rows))
	}

	return Prompt{
		System: summaryPrompt,
		User: fmt.Sprintf("User question: %s\nQuery result: %s\n\nSummarize this insight in plain language using names, not IDs.",
			question, data),
		Temperature: 0.7,
		MaxTokens:   150,
	}
}

var fence = regexp.MustCompile("(?i)```(sql)?")

// CleanSQL strips Markdown fences and trailing semicolons from a model reply.
func CleanSQL(reply string) string {
	query := strings.TrimSpace(fence.ReplaceAllString(reply, ""))

	for strings.HasSuffix(query, ";") {
		query = strings.TrimSpace(strings.TrimSuffix(query, ";"))
	}

	return query
}
