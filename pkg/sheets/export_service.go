package sheets

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/equilibrium-app/equilibrium/pkg/expense"
	"github.com/equilibrium-app/equilibrium/pkg/income"
	"github.com/equilibrium-app/equilibrium/pkg/user"
)

// ExportResult describes what a finished export wrote.
type ExportResult struct {
	SpreadsheetId string
	SheetTitle    string
	RowsWritten   int
}

type Service interface {
	// ExportMonth writes all incomes and expenses of the given month into a
	// sheet named "YYYY-MM" of the given spreadsheet, replacing previous
	// contents of that sheet. Failures are returned to the caller, there is
	// no retry.
	ExportMonth(ctx context.Context, spreadsheetId string, year int, month int) (ExportResult, error)
}

type ExportServiceImpl struct {
	auth     *GoogleAuth
	incomes  income.Service
	expenses expense.Service
}

func NewExportService(auth *GoogleAuth, incomes income.Service, expenses expense.Service) *ExportServiceImpl {
	return &ExportServiceImpl{auth: auth, incomes: incomes, expenses: expenses}
}

func (s *ExportServiceImpl) ExportMonth(ctx context.Context, spreadsheetId string, year int, month int) (ExportResult, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to get current user: %w", err)
	}

	svc, err := s.prepareSheetsService(ctx, userId)
	if err != nil {
		return ExportResult{}, err
	}

	incomes, err := s.incomes.GetForMonth(ctx, year, month)
	if err != nil {
		return ExportResult{}, err
	}
	expenses, err := s.expenses.GetForMonth(ctx, year, month)
	if err != nil {
		return ExportResult{}, err
	}

	values := [][]any{{"Date", "Kind", "Title", "Amount", "Description"}}
	for _, record := range incomes {
		values = append(values, []any{record.Date.Format("2006-01-02"), "income", record.Title, record.Amount.String(), record.Description})
	}
	for _, record := range expenses {
		values = append(values, []any{record.Date.Format("2006-01-02"), "expense", record.Title, record.Amount.String(), record.Description})
	}

	sheetTitle := fmt.Sprintf("%04d-%02d", year, month)
	if err := s.ensureSheet(ctx, svc, spreadsheetId, sheetTitle); err != nil {
		return ExportResult{}, err
	}

	clearRange := sheetTitle + "!A:E"
	if _, err := svc.Spreadsheets.Values.Clear(spreadsheetId, clearRange, &gsheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return ExportResult{}, fmt.Errorf("unable to clear sheet %s: %w", sheetTitle, err)
	}

	body := &gsheets.ValueRange{Values: values}
	_, err = svc.Spreadsheets.Values.Update(spreadsheetId, sheetTitle+"!A1", body).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return ExportResult{}, fmt.Errorf("unable to write sheet %s: %w", sheetTitle, err)
	}

	log.Infof("exported %d records to spreadsheet %s sheet %s", len(values)-1, spreadsheetId, sheetTitle)
	return ExportResult{
		SpreadsheetId: spreadsheetId,
		SheetTitle:    sheetTitle,
		RowsWritten:   len(values) - 1,
	}, nil
}

func (s *ExportServiceImpl) ensureSheet(ctx context.Context, svc *gsheets.Service, spreadsheetId string, title string) error {
	spreadsheet, err := svc.Spreadsheets.Get(spreadsheetId).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to open spreadsheet %s: %w", spreadsheetId, err)
	}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title == title {
			return nil
		}
	}

	request := &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			AddSheet: &gsheets.AddSheetRequest{
				Properties: &gsheets.SheetProperties{Title: title},
			},
		}},
	}
	if _, err := svc.Spreadsheets.BatchUpdate(spreadsheetId, request).Context(ctx).Do(); err != nil {
		return fmt.Errorf("unable to add sheet %s: %w", title, err)
	}
	return nil
}

func (s *ExportServiceImpl) prepareSheetsService(ctx context.Context, userId int) (*gsheets.Service, error) {
	client, err := s.auth.getClient(ctx, userId)
	if err != nil {
		err := fmt.Errorf("unable to retrieve Google auth client: %w", err)
		log.Error(err)
		return nil, err
	}
	if client == nil {
		log.Debug("user is unauthenticated, authentication is required")
		return nil, ErrUnauthenticated
	}
	svc, err := gsheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		err := fmt.Errorf("unable to create Sheets client: %w", err)
		log.Error(err)
		return nil, err
	}
	return svc, nil
}
