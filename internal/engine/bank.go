package engine

import "fmt"

// BankAccount is the interest-bearing vault. Interest accrues at 1% of the
// vault balance, floored, at most once per calendar day.
type BankAccount struct {
	Balance             int    `json:"balance"`
	TotalInterestEarned int    `json:"totalInterestEarned"`
	LastInterestDate    string `json:"lastInterestDate"`
}

func (e *Engine) accrueInterestLocked() {
	today := e.clock.Now().Format(DateFormat)
	if e.st.Bank.LastInterestDate == today {
		return
	}
	e.st.Bank.LastInterestDate = today
	if e.st.Bank.Balance <= 0 {
		return
	}
	interest := e.st.Bank.Balance / 100
	if interest <= 0 {
		return
	}
	e.st.Bank.Balance += interest
	e.st.Bank.TotalInterestEarned += interest
}

// Deposit moves gold from the wallet into the vault.
func (e *Engine) Deposit(amount int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if amount <= 0 {
		return fmt.Errorf("deposit amount must be positive, got %d", amount)
	}
	if amount > e.st.Balance {
		return fmt.Errorf("deposit of %d exceeds wallet balance %d", amount, e.st.Balance)
	}

	e.accrueInterestLocked()
	e.st.Bank.Balance += amount
	e.applyDeltaLocked(-amount, "Vault deposit")
	e.afterMutationLocked()
	return nil
}

// WithdrawAll empties the vault back into the wallet and returns the amount
// moved, after accruing any interest due today.
func (e *Engine) WithdrawAll() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.accrueInterestLocked()
	amount := e.st.Bank.Balance
	if amount <= 0 {
		return 0
	}
	e.st.Bank.Balance = 0
	e.applyDeltaLocked(amount, "Vault withdrawal")
	e.afterMutationLocked()
	return amount
}

// Bank returns a copy of the vault after accruing today's interest.
func (e *Engine) Bank() BankAccount {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.accrueInterestLocked()
	e.schedulePersistLocked()
	return e.st.Bank
}
