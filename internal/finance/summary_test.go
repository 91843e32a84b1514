package finance

import (
	"context"
	"testing"

	"github.com/Harrix/harrix-swiss-knife-sub001/internal/core"
)

func TestIncomeVsExpensesConvertsCurrencies(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rub := mustAddCurrency(t, repo, "RUB", "₽")
	usd := mustAddCurrency(t, repo, "USD", "$")
	groceries := mustAddCategory(t, repo, "Groceries", TypeExpense)
	salary := mustAddCategory(t, repo, "Salary", TypeIncome)

	if err := repo.AddExchangeRate(ctx, usd, rub, 90, "2024-06-01"); err != nil {
		t.Fatalf("add rate: %v", err)
	}
	if err := repo.AddTransaction(ctx, 10, "imported", groceries, usd, "2024-06-01", ""); err != nil {
		t.Fatalf("add usd expense: %v", err)
	}
	if err := repo.AddTransaction(ctx, 500, "local", groceries, rub, "2024-06-01", ""); err != nil {
		t.Fatalf("add rub expense: %v", err)
	}
	if err := repo.AddTransaction(ctx, 1000, "salary", salary, rub, "2024-06-01", ""); err != nil {
		t.Fatalf("add income: %v", err)
	}

	income, expenses, err := repo.IncomeVsExpenses(ctx, rub, "2024-06-01", "2024-06-01")
	if err != nil {
		t.Fatalf("income vs expenses: %v", err)
	}
	if income != 1000 {
		t.Errorf("income = %v, want 1000", income)
	}
	// 10 USD at rate 90 plus 500 RUB.
	if expenses != 1400 {
		t.Errorf("expenses = %v, want 1400", expenses)
	}
}

func TestIncomeVsExpensesUnboundedRange(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rub := mustAddCurrency(t, repo, "RUB", "₽")
	groceries := mustAddCategory(t, repo, "Groceries", TypeExpense)

	for _, date := range []string{"2023-01-15", "2024-06-01"} {
		if err := repo.AddTransaction(ctx, 100, "bread", groceries, rub, date, ""); err != nil {
			t.Fatalf("add transaction: %v", err)
		}
	}

	income, expenses, err := repo.IncomeVsExpenses(ctx, rub, "", "")
	if err != nil {
		t.Fatalf("income vs expenses: %v", err)
	}
	if income != 0 {
		t.Errorf("income = %v, want 0", income)
	}
	if expenses != 200 {
		t.Errorf("expenses = %v, want 200", expenses)
	}
}

func TestTodayBalanceAndExpenses(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rub := mustAddCurrency(t, repo, "RUB", "₽")
	groceries := mustAddCategory(t, repo, "Groceries", TypeExpense)
	salary := mustAddCategory(t, repo, "Salary", TypeIncome)

	today := core.Today()
	if err := repo.AddTransaction(ctx, 300, "salary", salary, rub, today, ""); err != nil {
		t.Fatalf("add income: %v", err)
	}
	if err := repo.AddTransaction(ctx, 100, "bread", groceries, rub, today, ""); err != nil {
		t.Fatalf("add expense: %v", err)
	}
	// Outside today's window; must not count.
	if err := repo.AddTransaction(ctx, 999, "old", groceries, rub, "2020-01-01", ""); err != nil {
		t.Fatalf("add old expense: %v", err)
	}

	expenses, err := repo.TodayExpenses(ctx, rub)
	if err != nil {
		t.Fatalf("today expenses: %v", err)
	}
	if expenses != 100 {
		t.Errorf("today expenses = %v, want 100", expenses)
	}

	balance, err := repo.TodayBalance(ctx, rub)
	if err != nil {
		t.Fatalf("today balance: %v", err)
	}
	if balance != 200 {
		t.Errorf("today balance = %v, want 200", balance)
	}
}

func TestAccountBalancesConvertsCurrencies(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rub := mustAddCurrency(t, repo, "RUB", "₽")
	usd := mustAddCurrency(t, repo, "USD", "$")
	if err := repo.AddExchangeRate(ctx, usd, rub, 90, "2024-06-01"); err != nil {
		t.Fatalf("add rate: %v", err)
	}

	accounts := []Account{
		{Name: "Cash", Balance: 1000, CurrencyID: rub, IsLiquid: true, IsCash: true},
		{Name: "Bank", Balance: 10, CurrencyID: usd, IsLiquid: true},
	}
	for _, a := range accounts {
		if err := repo.AddAccount(ctx, a); err != nil {
			t.Fatalf("add account %s: %v", a.Name, err)
		}
	}

	balances, err := repo.AccountBalances(ctx, rub)
	if err != nil {
		t.Fatalf("account balances: %v", err)
	}
	want := []AccountBalance{
		{Name: "Bank", Balance: 900},
		{Name: "Cash", Balance: 1000},
	}
	if len(balances) != len(want) {
		t.Fatalf("got %d balances, want %d", len(balances), len(want))
	}
	for i, w := range want {
		if balances[i] != w {
			t.Errorf("balances[%d] = %+v, want %+v", i, balances[i], w)
		}
	}
}
