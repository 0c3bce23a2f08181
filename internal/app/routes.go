package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// User management
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user/current", deps.UserHandler.UpdateUser).Methods("PUT")
	r.HandleFunc("/api/user/name-availability", deps.UserHandler.IsUsernameAvailable).Methods("GET").Queries("username", "{username}")

	// Categories
	r.HandleFunc("/api/category", deps.CategoryHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/category", deps.CategoryHandler.Create).Methods("POST")
	r.HandleFunc("/api/category/{slug}", deps.CategoryHandler.Get).Methods("GET")
	r.HandleFunc("/api/category/{slug}", deps.CategoryHandler.Update).Methods("PUT")
	r.HandleFunc("/api/category/{slug}", deps.CategoryHandler.Delete).Methods("DELETE")

	// Recurring bills and per-period payments
	r.HandleFunc("/api/bill", deps.BillHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/bill", deps.BillHandler.Create).Methods("POST")
	r.HandleFunc("/api/bill/{id}", deps.BillHandler.Get).Methods("GET")
	r.HandleFunc("/api/bill/{id}", deps.BillHandler.Update).Methods("PUT")
	r.HandleFunc("/api/bill/{id}", deps.BillHandler.Deactivate).Methods("DELETE")
	r.HandleFunc("/api/bill/{id}/payment/{year}/{month}", deps.BillHandler.GetPayment).Methods("GET")
	r.HandleFunc("/api/bill/{id}/payment/{year}/{month}/pay", deps.BillHandler.Pay).Methods("POST")
	r.HandleFunc("/api/bill/{id}/payment/{year}/{month}/pay", deps.BillHandler.Unpay).Methods("DELETE")

	// Savings goals
	r.HandleFunc("/api/goal", deps.GoalHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/goal", deps.GoalHandler.Create).Methods("POST")
	r.HandleFunc("/api/goal/{slug}", deps.GoalHandler.Get).Methods("GET")
	r.HandleFunc("/api/goal/{slug}", deps.GoalHandler.Update).Methods("PUT")
	r.HandleFunc("/api/goal/{slug}", deps.GoalHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/goal/{slug}/deposit", deps.GoalHandler.Deposit).Methods("POST")
	r.HandleFunc("/api/goal/{slug}/withdraw", deps.GoalHandler.Withdraw).Methods("POST")
	r.HandleFunc("/api/goal/{slug}/entry", deps.GoalHandler.ListEntries).Methods("GET")

	// Incomes
	r.HandleFunc("/api/income", deps.IncomeHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/income", deps.IncomeHandler.Create).Methods("POST")
	r.HandleFunc("/api/income/{incomeId}", deps.IncomeHandler.Get).Methods("GET")
	r.HandleFunc("/api/income/{incomeId}", deps.IncomeHandler.Update).Methods("PUT")
	r.HandleFunc("/api/income/{incomeId}", deps.IncomeHandler.Delete).Methods("DELETE")

	// Expenses
	r.HandleFunc("/api/expense", deps.ExpenseHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/expense", deps.ExpenseHandler.Create).Methods("POST")
	r.HandleFunc("/api/expense/{expenseId}", deps.ExpenseHandler.Get).Methods("GET")
	r.HandleFunc("/api/expense/{expenseId}", deps.ExpenseHandler.Update).Methods("PUT")
	r.HandleFunc("/api/expense/{expenseId}", deps.ExpenseHandler.Delete).Methods("DELETE")

	// Debts
	r.HandleFunc("/api/debt", deps.DebtHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/debt", deps.DebtHandler.Create).Methods("POST")
	r.HandleFunc("/api/debt/{debtId}", deps.DebtHandler.Get).Methods("GET")
	r.HandleFunc("/api/debt/{debtId}", deps.DebtHandler.Update).Methods("PUT")
	r.HandleFunc("/api/debt/{debtId}", deps.DebtHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/debt/{debtId}/pay", deps.DebtHandler.Pay).Methods("POST")
	r.HandleFunc("/api/debt/{debtId}/pay", deps.DebtHandler.Unpay).Methods("DELETE")

	// Investments
	r.HandleFunc("/api/investment", deps.InvestmentHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/investment", deps.InvestmentHandler.Create).Methods("POST")
	r.HandleFunc("/api/investment/{investmentId}", deps.InvestmentHandler.Get).Methods("GET")
	r.HandleFunc("/api/investment/{investmentId}", deps.InvestmentHandler.Update).Methods("PUT")
	r.HandleFunc("/api/investment/{investmentId}", deps.InvestmentHandler.Delete).Methods("DELETE")

	// Google Sheets integration
	r.HandleFunc("/api/integrations/google/auth/login", deps.GoogleAuth.OAuthLogin).Methods("GET")
	r.HandleFunc("/api/integrations/google/auth/logout", deps.GoogleAuth.OAuthLogout).Methods("DELETE")
	r.HandleFunc("/api/integrations/google/auth/callback", deps.GoogleAuth.OAuthCallback).Methods("GET")
	r.HandleFunc("/api/integrations/google/sheets/export", deps.SheetsHandler.ExportMonth).Methods("POST")
}
