package main

import (
	"context"
	"fmt"
	"time"

	"familyledger/engine"
	"familyledger/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Options sizes a seeding run.
type Options struct {
	Families         int
	Months           int
	ExpensesPerMonth int
}

// Result counts the rows a run created.
type Result struct {
	Families int
	Budgets  int
	Expenses int
	Incomes  int
}

// Seeder writes demo data. Expenses go through the engine hook so every
// budget cache matches the ledger afterwards.
type Seeder struct {
	DB     *gorm.DB
	Engine *engine.Engine
	Faker  *gofakeit.Faker
}

const (
	budgetedCategories = 3
	membersPerFamily   = 3
)

var currencies = []string{"EUR", "USD", "GBP", "CNY"}

// Run creates opts.Families families with opts.Months of history each.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	db := s.DB.WithContext(ctx)

	var defaults []models.Category
	if err := db.Where("family_id IS NULL AND active = ?", true).Order("sort").Find(&defaults).Error; err != nil {
		return nil, fmt.Errorf("load default categories: %w", err)
	}

	res := &Result{}
	for i := 0; i < opts.Families; i++ {
		fam := models.Family{
			Name:       s.Faker.LastName(),
			Currency:   currencies[s.Faker.Number(0, len(currencies)-1)],
			AlertEmail: s.Faker.Email(),
		}
		if err := db.Create(&fam).Error; err != nil {
			return nil, fmt.Errorf("create family: %w", err)
		}
		res.Families++

		own := models.Category{
			FamilyID: &fam.ID,
			Name:     "Hobby " + s.Faker.Word(),
			Color:    s.Faker.HexColor(),
			Sort:     100,
			Active:   true,
		}
		if err := db.Create(&own).Error; err != nil {
			return nil, fmt.Errorf("create category: %w", err)
		}
		cats := append(append([]models.Category{}, defaults...), own)

		if err := s.seedFamily(ctx, fam.ID, cats, opts, res); err != nil {
			return nil, fmt.Errorf("family %d: %w", fam.ID, err)
		}
	}
	return res, nil
}

func (s *Seeder) seedFamily(ctx context.Context, familyID uint, cats []models.Category, opts Options, res *Result) error {
	loc := s.Engine.Location()
	current := engine.YearMonthOf(s.Engine.Now(), loc)

	ym := current
	for i := 1; i < opts.Months; i++ {
		ym = ym.Prev()
	}

	for m := 0; m < opts.Months; m++ {
		for i := 0; i < budgetedCategories && i < len(cats); i++ {
			_, err := s.Engine.CreateBudget(ctx, familyID, engine.BudgetInput{
				CategoryID: cats[i].ID,
				Year:       ym.Year,
				Month:      int(ym.Month),
				Amount:     s.amount(200, 800),
				AutoRenew:  true,
				CreatedBy:  1,
			})
			if err != nil {
				return err
			}
			res.Budgets++
		}

		if err := s.seedIncome(ctx, familyID, ym, res); err != nil {
			return err
		}

		for i := 0; i < opts.ExpensesPerMonth; i++ {
			cat := cats[s.Faker.Number(0, len(cats)-1)]
			exp := models.Expense{
				FamilyID:    familyID,
				UserID:      uint(s.Faker.Number(1, membersPerFamily)),
				CategoryID:  cat.ID,
				Amount:      s.amount(2, 120),
				Description: s.Faker.Sentence(4),
				Date:        s.dayIn(ym, loc),
				Active:      true,
			}
			if err := s.DB.WithContext(ctx).Create(&exp).Error; err != nil {
				return fmt.Errorf("create expense: %w", err)
			}
			s.Engine.OnTransactionMutated(ctx, nil, engine.SnapshotOfExpense(&exp))
			res.Expenses++
		}
		ym = ym.Next()
	}
	return nil
}

// seedIncome books a salary on the first of the month plus an occasional
// one-off.
func (s *Seeder) seedIncome(ctx context.Context, familyID uint, ym engine.YearMonth, res *Result) error {
	loc := s.Engine.Location()
	payday := time.Date(ym.Year, ym.Month, 1, 9, 0, 0, 0, loc)
	next, _ := models.NextOccurrence(payday, models.FrequencyMonthly)

	incomes := []models.Income{{
		FamilyID:       familyID,
		UserID:         1,
		Source:         "salary",
		Amount:         s.amount(2500, 4500),
		Description:    s.Faker.Company(),
		Date:           payday,
		Active:         true,
		Recurring:      true,
		Frequency:      models.FrequencyMonthly,
		NextOccurrence: &next,
	}}
	if s.Faker.Bool() {
		incomes = append(incomes, models.Income{
			FamilyID:    familyID,
			UserID:      uint(s.Faker.Number(1, membersPerFamily)),
			Source:      "freelance",
			Amount:      s.amount(100, 900),
			Description: s.Faker.Sentence(3),
			Date:        s.dayIn(ym, loc),
			Active:      true,
		})
	}
	if err := s.DB.WithContext(ctx).Create(&incomes).Error; err != nil {
		return fmt.Errorf("create income: %w", err)
	}
	res.Incomes += len(incomes)
	return nil
}

func (s *Seeder) amount(min, max float64) decimal.Decimal {
	return decimal.NewFromFloat(s.Faker.Price(min, max)).Round(2)
}

// dayIn picks a time on days 1..28 so every month has it.
func (s *Seeder) dayIn(ym engine.YearMonth, loc *time.Location) time.Time {
	return time.Date(ym.Year, ym.Month, s.Faker.Number(1, 28), s.Faker.Number(7, 21), s.Faker.Number(0, 59), 0, 0, loc)
}
