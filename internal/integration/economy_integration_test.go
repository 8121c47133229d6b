package integration

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"spudverse/internal/domain"
	"spudverse/internal/http/handlers"
	"spudverse/internal/repository"
	"spudverse/internal/service"
)

func applyMigrationsToPool(t *testing.T, dbp *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := dbp.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

type testEnv struct {
	db           *pgxpool.Pool
	accounts     *repository.AccountRepository
	missions     *repository.MissionRepository
	achievements *repository.AchievementRepository
	referrals    *repository.ReferralRepository
	shop         *repository.ShopRepository
	transactions *repository.TransactionRepository

	ledger         *service.LedgerService
	taps           *service.TapService
	accountSvc     *service.AccountService
	missionSvc     *service.MissionService
	achievementSvc *service.AchievementService
	referralSvc    *service.ReferralService
	shopSvc        *service.ShopService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	dbp, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(dbp.Close)

	applyMigrationsToPool(t, dbp)

	env := &testEnv{
		db:           dbp,
		accounts:     repository.NewAccountRepository(dbp),
		missions:     repository.NewMissionRepository(dbp),
		achievements: repository.NewAchievementRepository(dbp),
		referrals:    repository.NewReferralRepository(dbp),
		shop:         repository.NewShopRepository(dbp),
		transactions: repository.NewTransactionRepository(dbp),
	}
	env.ledger = service.NewLedgerService(env.transactions)
	env.taps = service.NewTapService(dbp, env.accounts, env.shop, env.transactions, nil, 500)
	env.accountSvc = service.NewAccountService(env.accounts, env.transactions, env.referrals, nil)
	env.missionSvc = service.NewMissionService(dbp, env.missions, env.referrals, env.ledger, nil, "@spudverse_channel")
	env.achievementSvc = service.NewAchievementService(dbp, env.achievements, env.accounts, env.referrals, env.missions, env.ledger)
	env.referralSvc = service.NewReferralService(dbp, env.referrals, env.accounts, env.ledger, env.missionSvc, env.achievementSvc, 100, 50)
	env.shopSvc = service.NewShopService(dbp, env.shop, env.accounts, env.ledger, nil)
	return env
}

var idCounter int64

// newAccount creates a fresh account with a run-unique id.
func (env *testEnv) newAccount(t *testing.T) *domain.Account {
	t.Helper()
	idCounter++
	acc := &domain.Account{
		UserID:    time.Now().UnixNano()%1_000_000_000 + idCounter*1_000_000_000,
		Username:  "spudtester",
		FirstName: "Spud",
	}
	if err := env.accounts.Create(context.Background(), acc); err != nil {
		t.Fatalf("create account: %v", err)
	}
	created, err := env.accounts.GetByID(context.Background(), acc.UserID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	return created
}

func (env *testEnv) setAccountState(t *testing.T, query string, args ...any) {
	t.Helper()
	if _, err := env.db.Exec(context.Background(), query, args...); err != nil {
		t.Fatalf("set account state: %v", err)
	}
}

// insertMission seeds a catalog mission for a test and returns its id.
// Rerunning against the same database just refreshes the existing row.
func (env *testEnv) insertMission(t *testing.T, title, mtype string, reward int64, requirements string) int64 {
	t.Helper()
	var id int64
	err := env.db.QueryRow(context.Background(),
		`INSERT INTO missions (title, description, reward, type, requirements)
		 VALUES ($1, '', $2, $3, $4)
		 ON CONFLICT (title) DO UPDATE SET reward = EXCLUDED.reward, requirements = EXCLUDED.requirements
		 RETURNING id`,
		title, reward, mtype, requirements,
	).Scan(&id)
	if err != nil {
		t.Fatalf("insert mission: %v", err)
	}
	return id
}

// stubVerifier stands in for the Telegram channel-membership check.
type stubVerifier struct {
	member bool
	err    error
}

func (v stubVerifier) IsChannelMember(ctx context.Context, channel string, userID int64) (bool, error) {
	return v.member, v.err
}

func TestTapRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acc := env.newAccount(t)

	res, err := env.taps.RecordTaps(ctx, acc.UserID, 5)
	if err != nil {
		t.Fatalf("record taps: %v", err)
	}
	if res.Earned != 5 {
		t.Fatalf("earned = %d, want 5", res.Earned)
	}
	if res.Energy != 95 {
		t.Fatalf("energy = %d, want 95", res.Energy)
	}
	if res.Balance != 5 || res.TotalFarmed != 5 {
		t.Fatalf("balance/farmed = %d/%d, want 5/5", res.Balance, res.TotalFarmed)
	}
}

func TestTapBatchAllOrNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acc := env.newAccount(t)

	env.setAccountState(t,
		`UPDATE accounts SET energy = 5, last_energy_update = now() WHERE user_id = $1`, acc.UserID)

	// a batch larger than remaining energy settles nothing
	_, err := env.taps.RecordTaps(ctx, acc.UserID, 6)
	if !errors.Is(err, service.ErrInsufficientEnergy) {
		t.Fatalf("expected insufficient energy, got %v", err)
	}
	var energyErr *service.EnergyError
	if !errors.As(err, &energyErr) || energyErr.Current != 5 {
		t.Fatalf("expected authoritative energy 5 in error, got %+v", energyErr)
	}

	after, err := env.accounts.GetByID(ctx, acc.UserID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if after.Balance != 0 || after.Energy != 5 {
		t.Fatalf("rejected batch mutated state: balance=%d energy=%d", after.Balance, after.Energy)
	}

	// exactly the remaining energy settles fine
	res, err := env.taps.RecordTaps(ctx, acc.UserID, 5)
	if err != nil {
		t.Fatalf("record taps: %v", err)
	}
	if res.Energy != 0 || res.Earned != 5 {
		t.Fatalf("energy/earned = %d/%d, want 0/5", res.Energy, res.Earned)
	}
}

func TestTapLevelUpRefillsEnergy(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acc := env.newAccount(t)

	env.setAccountState(t,
		`UPDATE accounts SET total_farmed = 950, last_energy_update = now() WHERE user_id = $1`, acc.UserID)

	res, err := env.taps.RecordTaps(ctx, acc.UserID, 50)
	if err != nil {
		t.Fatalf("record taps: %v", err)
	}
	if !res.LeveledUp || res.Level.Level != 2 {
		t.Fatalf("expected level 2, got leveled=%v level=%d", res.LeveledUp, res.Level.Level)
	}
	if res.PerTap != 2 {
		t.Fatalf("per_tap = %d, want 2", res.PerTap)
	}
	if res.MaxEnergy != 150 || res.Energy != 150 {
		t.Fatalf("energy = %d/%d, want full 150/150", res.Energy, res.MaxEnergy)
	}
}

func TestReferralBonuses(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	referrer := env.newAccount(t)
	referred := env.newAccount(t)

	if err := env.referralSvc.Register(ctx, referrer.UserID, referred.UserID); err != nil {
		t.Fatalf("register referral: %v", err)
	}

	a, _ := env.accounts.GetByID(ctx, referrer.UserID)
	b, _ := env.accounts.GetByID(ctx, referred.UserID)
	if a.Balance != 100 {
		t.Fatalf("referrer balance = %d, want 100", a.Balance)
	}
	if b.Balance != 50 {
		t.Fatalf("referred balance = %d, want 50", b.Balance)
	}
	if b.ReferrerID == nil || *b.ReferrerID != referrer.UserID {
		t.Fatalf("referrer_id not set")
	}

	// second referrer for the same user is rejected, no bonus paid
	other := env.newAccount(t)
	err := env.referralSvc.Register(ctx, other.UserID, referred.UserID)
	if !errors.Is(err, service.ErrAlreadyReferred) {
		t.Fatalf("expected already referred, got %v", err)
	}

	if err := env.referralSvc.Register(ctx, referrer.UserID, referrer.UserID); !errors.Is(err, service.ErrSelfReferral) {
		t.Fatalf("expected self referral error, got %v", err)
	}
}

func TestMissionClaimOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acc := env.newAccount(t)

	missions, err := env.missions.GetActive(ctx)
	if err != nil || len(missions) == 0 {
		t.Fatalf("no seeded missions: %v", err)
	}
	var welcome *domain.Mission
	for _, m := range missions {
		if m.Type == domain.MissionTypeWelcome {
			welcome = m
			break
		}
	}
	if welcome == nil {
		t.Fatalf("welcome mission not seeded")
	}

	// claim before completion is rejected
	if _, err := env.missionSvc.Claim(ctx, acc.UserID, welcome.ID); !errors.Is(err, service.ErrNotCompleted) {
		t.Fatalf("expected not completed, got %v", err)
	}

	completed, err := env.missionSvc.Verify(ctx, acc.UserID, welcome.ID)
	if err != nil || !completed {
		t.Fatalf("verify welcome: completed=%v err=%v", completed, err)
	}

	res, err := env.missionSvc.Claim(ctx, acc.UserID, welcome.ID)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if res.Reward != welcome.Reward || res.Balance != welcome.Reward {
		t.Fatalf("reward/balance = %d/%d, want %d", res.Reward, res.Balance, welcome.Reward)
	}

	if _, err := env.missionSvc.Claim(ctx, acc.UserID, welcome.ID); !errors.Is(err, service.ErrAlreadyClaimed) {
		t.Fatalf("expected already claimed, got %v", err)
	}
}

func TestAchievementGrantedOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acc := env.newAccount(t)

	env.setAccountState(t,
		`UPDATE accounts SET balance = 1000 WHERE user_id = $1`, acc.UserID)

	first, err := env.achievementSvc.Evaluate(ctx, acc.UserID)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	var found bool
	for _, a := range first {
		if a.Type == domain.AchievementBalance && a.Threshold == 1000 {
			found = true
		}
	}
	if !found {
		t.Fatalf("balance achievement not unlocked, got %d unlocks", len(first))
	}

	again, err := env.achievementSvc.Evaluate(ctx, acc.UserID)
	if err != nil {
		t.Fatalf("re-evaluate: %v", err)
	}
	for _, a := range again {
		if a.Type == domain.AchievementBalance && a.Threshold == 1000 {
			t.Fatalf("achievement granted twice")
		}
	}
}

func TestShopPurchaseAndPassiveIncome(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acc := env.newAccount(t)

	env.setAccountState(t,
		`UPDATE accounts SET balance = 500, last_passive_sync = now() WHERE user_id = $1`, acc.UserID)

	items, err := env.shop.GetItems(ctx)
	if err != nil || len(items) == 0 {
		t.Fatalf("no seeded shop items: %v", err)
	}
	patch := items[0]

	res, err := env.shopSvc.BuyItem(ctx, acc.UserID, patch.ID)
	if err != nil {
		t.Fatalf("buy item: %v", err)
	}
	if res.Cost != patch.BaseCost {
		t.Fatalf("first unit cost = %d, want %d", res.Cost, patch.BaseCost)
	}
	if res.Balance != 500-patch.BaseCost {
		t.Fatalf("balance = %d, want %d", res.Balance, 500-patch.BaseCost)
	}
	if res.SPH != patch.BaseProfit {
		t.Fatalf("sph = %d, want %d", res.SPH, patch.BaseProfit)
	}

	// second unit costs base * scaling
	res2, err := env.shopSvc.BuyItem(ctx, acc.UserID, patch.ID)
	if err != nil {
		t.Fatalf("buy second unit: %v", err)
	}
	wantCost := int64(float64(patch.BaseCost) * patch.ScalingFactor)
	if res2.Cost != wantCost {
		t.Fatalf("second unit cost = %d, want %d", res2.Cost, wantCost)
	}

	// an hour of accrual settles sph worth of SPUD
	env.setAccountState(t,
		`UPDATE accounts SET last_passive_sync = now() - interval '1 hour' WHERE user_id = $1`, acc.UserID)
	sync, err := env.shopSvc.SyncPassive(ctx, acc.UserID)
	if err != nil {
		t.Fatalf("sync passive: %v", err)
	}
	if sync.Earned < res2.SPH-1 || sync.Earned > res2.SPH {
		t.Fatalf("passive earned = %d, want ~%d", sync.Earned, res2.SPH)
	}
}

func TestUpgradePurchaseAppliesStat(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acc := env.newAccount(t)

	env.setAccountState(t,
		`UPDATE accounts SET balance = 10000 WHERE user_id = $1`, acc.UserID)

	res, err := env.shopSvc.BuyUpgrade(ctx, acc.UserID, "per_tap")
	if err != nil {
		t.Fatalf("buy upgrade: %v", err)
	}
	if res.Level != 1 || res.Cost != 500 {
		t.Fatalf("level/cost = %d/%d, want 1/500", res.Level, res.Cost)
	}
	if res.PerTap != 2 {
		t.Fatalf("per_tap = %d, want 2", res.PerTap)
	}

	after, _ := env.accounts.GetByID(ctx, acc.UserID)
	if after.PerTap != 2 {
		t.Fatalf("persisted per_tap = %d, want 2", after.PerTap)
	}

	if _, err := env.shopSvc.BuyUpgrade(ctx, acc.UserID, "warp_drive"); !errors.Is(err, service.ErrUnknownUpgrade) {
		t.Fatalf("expected unknown upgrade, got %v", err)
	}
}

func TestVerifierOutageLeavesMissionPending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acc := env.newAccount(t)

	id := env.insertMission(t, "Join the test channel", "social", 250,
		`{"action": "join_channel", "channel": "@testchan"}`)

	// verifier outage surfaces as retry-later, mission state untouched
	down := service.NewMissionService(env.db, env.missions, env.referrals, env.ledger,
		stubVerifier{err: errors.New("bot api down")}, "@testchan")
	if _, err := down.Verify(ctx, acc.UserID, id); !errors.Is(err, service.ErrVerifierUnavailable) {
		t.Fatalf("expected verifier unavailable, got %v", err)
	}
	if _, err := down.Claim(ctx, acc.UserID, id); !errors.Is(err, service.ErrNotCompleted) {
		t.Fatalf("outage must not make the mission claimable, got %v", err)
	}

	// a definitive "not a member" answer is not an error either
	notMember := service.NewMissionService(env.db, env.missions, env.referrals, env.ledger,
		stubVerifier{member: false}, "@testchan")
	completed, err := notMember.Verify(ctx, acc.UserID, id)
	if err != nil || completed {
		t.Fatalf("verify = (%v, %v), want pending without error", completed, err)
	}

	// retry against a healthy verifier completes and pays out
	up := service.NewMissionService(env.db, env.missions, env.referrals, env.ledger,
		stubVerifier{member: true}, "@testchan")
	completed, err = up.Verify(ctx, acc.UserID, id)
	if err != nil || !completed {
		t.Fatalf("retry verify = (%v, %v), want completed", completed, err)
	}
	res, err := up.Claim(ctx, acc.UserID, id)
	if err != nil || res.Reward != 250 {
		t.Fatalf("claim after retry: res=%+v err=%v", res, err)
	}
}

func TestDailyMissionOncePerDay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acc := env.newAccount(t)

	id := env.insertMission(t, "Test daily check-in", "daily", 50, `{}`)

	completed, err := env.missionSvc.Verify(ctx, acc.UserID, id)
	if err != nil || !completed {
		t.Fatalf("first verify = (%v, %v), want completed", completed, err)
	}
	if _, err := env.missionSvc.Claim(ctx, acc.UserID, id); err != nil {
		t.Fatalf("first claim: %v", err)
	}

	// a second verify the same day must not reopen the reward
	completed, err = env.missionSvc.Verify(ctx, acc.UserID, id)
	if err != nil || completed {
		t.Fatalf("same-day verify = (%v, %v), want not claimable", completed, err)
	}
	if _, err := env.missionSvc.Claim(ctx, acc.UserID, id); !errors.Is(err, service.ErrAlreadyClaimed) {
		t.Fatalf("expected already claimed, got %v", err)
	}

	// yesterday's claim reopens the mission
	env.setAccountState(t,
		`UPDATE user_missions SET claimed_at = now() - interval '1 day'
		 WHERE user_id = $1 AND mission_id = $2`, acc.UserID, id)
	completed, err = env.missionSvc.Verify(ctx, acc.UserID, id)
	if err != nil || !completed {
		t.Fatalf("next-day verify = (%v, %v), want completed", completed, err)
	}
	res, err := env.missionSvc.Claim(ctx, acc.UserID, id)
	if err != nil || res.Reward != 50 {
		t.Fatalf("next-day claim: res=%+v err=%v", res, err)
	}
}

func TestProfileReferralCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	first := env.newAccount(t)
	second := env.newAccount(t)

	// referrer id above referred id exercises the ordered row locking
	if err := env.referralSvc.Register(ctx, second.UserID, first.UserID); err != nil {
		t.Fatalf("register referral: %v", err)
	}

	profile, err := env.accountSvc.Profile(ctx, second.UserID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.ReferralCount != 1 {
		t.Fatalf("referral count = %d, want 1", profile.ReferralCount)
	}

	referred, err := env.accountSvc.Profile(ctx, first.UserID)
	if err != nil {
		t.Fatalf("referred profile: %v", err)
	}
	if referred.ReferralCount != 0 {
		t.Fatalf("referred count = %d, want 0", referred.ReferralCount)
	}
}

func TestSyncBalanceUnlocksPassiveAchievement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acc := env.newAccount(t)

	// an hour of passive income alone crosses the 1000-SPUD threshold
	env.setAccountState(t,
		`UPDATE accounts SET sph = 2000, last_passive_sync = now() - interval '1 hour'
		 WHERE user_id = $1`, acc.UserID)

	h := &handlers.Handler{
		Accounts:     env.accountSvc,
		Shop:         env.shopSvc,
		Achievements: env.achievementSvc,
	}

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/user/sync-balance", nil)
	c.Set("user_id", acc.UserID)
	h.SyncBalance(c)

	if w.Code != http.StatusOK {
		t.Fatalf("sync-balance status = %d, body %s", w.Code, w.Body.String())
	}

	views, err := env.achievementSvc.List(ctx, acc.UserID)
	if err != nil {
		t.Fatalf("list achievements: %v", err)
	}
	var unlocked bool
	for _, v := range views {
		if v.Type == domain.AchievementBalance && v.Threshold == 1000 && v.Unlocked {
			unlocked = true
		}
	}
	if !unlocked {
		t.Fatalf("passive income did not unlock the balance achievement")
	}
}
