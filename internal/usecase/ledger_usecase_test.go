package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lumora/lumora-unlock-service/internal/domain"
)

func newLedgerFixture() (*DefaultLedgerUsecase, *fakeLedgerRepo) {
	repo := newFakeLedgerRepo()
	return NewDefaultLedgerUsecase(repo, sharedMetrics(), 50), repo
}

func TestEarnAndSpend(t *testing.T) {
	uc, _ := newLedgerFixture()
	ctx := context.Background()

	balance, err := uc.Earn(ctx, "subj-1", 100, 2, 0, domain.TxReferralWelcome, "")
	if err != nil {
		t.Fatalf("Earn: %v", err)
	}
	if balance.Coins != 100 || balance.UnlockCards != 2 {
		t.Errorf("balance = %+v, want 100 coins and 2 cards", balance)
	}

	balance, err = uc.Spend(ctx, "subj-1", 30)
	if err != nil {
		t.Fatalf("Spend: %v", err)
	}
	if balance.Coins != 70 {
		t.Errorf("coins = %d, want 70", balance.Coins)
	}
}

func TestSpendInsufficientLeavesBalanceUntouched(t *testing.T) {
	uc, repo := newLedgerFixture()
	ctx := context.Background()

	if _, err := uc.Earn(ctx, "subj-1", 10, 0, 0, domain.TxAdminAdjust, ""); err != nil {
		t.Fatalf("Earn: %v", err)
	}
	txCountBefore := len(repo.transactions)

	_, err := uc.Spend(ctx, "subj-1", 25)
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}

	balance, _ := uc.GetBalance(ctx, "subj-1")
	if balance.Coins != 10 {
		t.Errorf("coins = %d, want 10 unchanged", balance.Coins)
	}
	if len(repo.transactions) != txCountBefore {
		t.Errorf("a failed spend appended a ledger record")
	}
}

func TestAdsReductionClamped(t *testing.T) {
	uc, _ := newLedgerFixture()
	ctx := context.Background()

	balance, err := uc.Earn(ctx, "subj-1", 0, 0, 40, domain.TxReferralReward, "")
	if err != nil {
		t.Fatalf("Earn: %v", err)
	}
	if balance.AdsReductionPercent != 40 {
		t.Errorf("reduction = %d, want 40", balance.AdsReductionPercent)
	}

	// Crossing the cap applies only the remainder.
	balance, err = uc.Earn(ctx, "subj-1", 0, 0, 40, domain.TxReferralReward, "")
	if err != nil {
		t.Fatalf("Earn: %v", err)
	}
	if balance.AdsReductionPercent != 50 {
		t.Errorf("reduction = %d, want capped at 50", balance.AdsReductionPercent)
	}
}

func TestSpendForUnlockCard(t *testing.T) {
	uc, _ := newLedgerFixture()
	ctx := context.Background()

	uc.Earn(ctx, "subj-1", 100, 0, 0, domain.TxAdminAdjust, "")
	balance, err := uc.SpendForUnlockCard(ctx, "subj-1", 60)
	if err != nil {
		t.Fatalf("SpendForUnlockCard: %v", err)
	}
	if balance.Coins != 40 || balance.UnlockCards != 1 {
		t.Errorf("balance = %+v, want 40 coins and 1 card", balance)
	}
}

func TestActivatePriorityExtendsWindow(t *testing.T) {
	uc, _ := newLedgerFixture()
	ctx := context.Background()

	uc.Earn(ctx, "subj-1", 100, 0, 0, domain.TxAdminAdjust, "")

	first, err := uc.ActivatePriority(ctx, "subj-1", 10, time.Hour)
	if err != nil {
		t.Fatalf("ActivatePriority: %v", err)
	}
	if first.PriorityUntil == nil {
		t.Fatal("PriorityUntil not set")
	}

	second, err := uc.ActivatePriority(ctx, "subj-1", 10, time.Hour)
	if err != nil {
		t.Fatalf("ActivatePriority: %v", err)
	}
	got := second.PriorityUntil.Sub(*first.PriorityUntil)
	if got < 59*time.Minute || got > 61*time.Minute {
		t.Errorf("window extended by %v, want about one hour on top of the running window", got)
	}
}

func TestBalanceEqualsFoldOverLog(t *testing.T) {
	uc, repo := newLedgerFixture()
	ctx := context.Background()

	uc.Earn(ctx, "subj-1", 100, 1, 10, domain.TxReferralReward, "")
	uc.Spend(ctx, "subj-1", 30)
	uc.SpendForUnlockCard(ctx, "subj-1", 20)
	uc.Earn(ctx, "subj-1", 5, 0, 0, domain.TxReferralWelcome, "")

	var coins int64
	var cards, reduction int32
	for _, tx := range repo.transactions {
		coins += tx.CoinsDelta
		cards += tx.CardsDelta
		reduction += tx.ReductionDelta
	}

	balance, _ := uc.GetBalance(ctx, "subj-1")
	if balance.Coins != coins || balance.UnlockCards != cards || balance.AdsReductionPercent != reduction {
		t.Errorf("balance %+v diverges from log fold (coins=%d cards=%d reduction=%d)",
			balance, coins, cards, reduction)
	}
}

func TestListTransactionsLimits(t *testing.T) {
	uc, _ := newLedgerFixture()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		uc.Earn(ctx, "subj-1", 1, 0, 0, domain.TxAdminAdjust, "")
	}

	txs, err := uc.ListTransactions(ctx, "subj-1", 3, 0)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(txs) != 3 {
		t.Errorf("len = %d, want 3", len(txs))
	}

	txs, _ = uc.ListTransactions(ctx, "subj-1", 3, 4)
	if len(txs) != 1 {
		t.Errorf("offset page len = %d, want 1", len(txs))
	}
}
