package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/equilibrium-app/equilibrium/internal/config"
	"github.com/equilibrium-app/equilibrium/internal/event_bus"
	"github.com/equilibrium-app/equilibrium/internal/utils"
	"github.com/equilibrium-app/equilibrium/pkg/bill"
	"github.com/equilibrium-app/equilibrium/pkg/category"
	"github.com/equilibrium-app/equilibrium/pkg/debt"
	"github.com/equilibrium-app/equilibrium/pkg/expense"
	"github.com/equilibrium-app/equilibrium/pkg/goal"
	"github.com/equilibrium-app/equilibrium/pkg/income"
	"github.com/equilibrium-app/equilibrium/pkg/investment"
	"github.com/equilibrium-app/equilibrium/pkg/sheets"
	"github.com/equilibrium-app/equilibrium/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	UserService user.Service
	UserHandler *user.Handler

	CategoryService category.Service
	CategoryHandler *category.Handler

	BillService bill.Service
	BillHandler *bill.Handler

	GoalService goal.Service
	GoalHandler *goal.Handler

	IncomeService income.Service
	IncomeHandler *income.Handler

	ExpenseService expense.Service
	ExpenseHandler *expense.Handler

	DebtService debt.Service
	DebtHandler *debt.Handler

	InvestmentService investment.Service
	InvestmentHandler *investment.Handler

	GoogleAuth    *sheets.GoogleAuth
	SheetsService sheets.Service
	SheetsHandler *sheets.Handler

	Clock utils.Clock
	Bus   *event_bus.EventBus
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.Bus = event_bus.NewEventBus()

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.CategoryService = category.NewCategoryService(category.NewCategoryRepo(db))
	deps.CategoryHandler = category.NewHandler(deps.CategoryService)

	deps.BillService = bill.NewBillService(bill.NewBillRepo(db), bill.NewPaymentRepo(db), deps.Clock, deps.Bus)
	deps.BillHandler = bill.NewHandler(deps.BillService)

	deps.GoalService = goal.NewGoalService(goal.NewGoalRepo(db), deps.Clock, deps.Bus)
	deps.GoalHandler = goal.NewHandler(deps.GoalService, deps.Clock)

	deps.IncomeService = income.NewIncomeService(income.NewIncomeRepo(db))
	deps.IncomeHandler = income.NewHandler(deps.IncomeService)

	deps.ExpenseService = expense.NewExpenseService(expense.NewExpenseRepo(db))
	deps.ExpenseHandler = expense.NewHandler(deps.ExpenseService)

	deps.DebtService = debt.NewDebtService(debt.NewDebtRepo(db))
	deps.DebtHandler = debt.NewHandler(deps.DebtService, deps.Clock)

	deps.InvestmentService = investment.NewInvestmentService(investment.NewInvestmentRepo(db))
	deps.InvestmentHandler = investment.NewHandler(deps.InvestmentService)

	deps.GoogleAuth = sheets.NewGoogleAuth(db, deps.UserService, cfg)
	deps.SheetsService = sheets.NewExportService(deps.GoogleAuth, deps.IncomeService, deps.ExpenseService)
	deps.SheetsHandler = sheets.NewHandler(deps.SheetsService)

	subscribeEventLogging(deps.Bus)

	return deps
}

// subscribeEventLogging attaches audit log subscribers for domain events.
func subscribeEventLogging(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped(bus, event_bus.GoalCompletedEvent, func(e event_bus.EventT[event_bus.GoalCompleted]) error {
		log.Infof("goal %d (%s) achieved its target of %s", e.Data.GoalId, e.Data.Title, e.Data.Target)
		return nil
	})
	event_bus.SubscribeTyped(bus, event_bus.GoalReopenedEvent, func(e event_bus.EventT[event_bus.GoalReopened]) error {
		log.Infof("goal %d (%s) dropped below its target and was reopened", e.Data.GoalId, e.Data.Title)
		return nil
	})
	event_bus.SubscribeTyped(bus, event_bus.BillPaidEvent, func(e event_bus.EventT[event_bus.BillPaid]) error {
		log.Infof("bill %d (%s) paid %s for period %04d-%02d", e.Data.BillId, e.Data.Name, e.Data.AmountPaid, e.Data.Year, e.Data.Month)
		return nil
	})
}
