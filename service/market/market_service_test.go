package market

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"coursemarket/core"
	courseservice "coursemarket/service/course"
	roleservice "coursemarket/service/role"
	certificatestore "coursemarket/store/certificate"
	coursestore "coursemarket/store/course"
	enrollmentstore "coursemarket/store/enrollment"
	eventstore "coursemarket/store/event"
	tokenstore "coursemarket/store/token"

	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOwner  = "owner"
	testOracle = "oracle"
	testMarket = "market"
)

type testEnv struct {
	db           *db.DB
	courses      core.ICourseStore
	enrollments  core.IEnrollmentStore
	events       core.IEventStore
	tokens       core.ITokenLedger
	certificates core.ICertificateRegistry
	roles        core.IRoleService
	coursez      core.ICourseService
	marketz      core.IMarketService
}

func setupTestEnv(t *testing.T, market core.Market) *testEnv {
	database := db.MustOpen(db.Config{
		Dialect: "sqlite3",
		Host:    filepath.Join(t.TempDir(), "market.db"),
	})
	t.Cleanup(func() { database.Close() })

	require.Nil(t, db.Migrate(database))

	env := &testEnv{
		db:           database,
		courses:      coursestore.New(database),
		enrollments:  enrollmentstore.New(database),
		events:       eventstore.New(database),
		tokens:       tokenstore.New(database),
		certificates: certificatestore.New(database),
	}

	env.roles = roleservice.New(database, propertystore.New(database), env.events, core.Genesis{
		Owner:  testOwner,
		Oracle: testOracle,
	})
	env.coursez = courseservice.New(database, env.courses, env.events, env.roles)
	env.marketz = New(database, market, env.courses, env.enrollments, env.events, env.tokens, env.certificates, env.roles)

	return env
}

func (env *testEnv) addCourse(t *testing.T, courseID, name string, price int64, metadataURI string) uint64 {
	ctx := context.Background()
	id, err := env.coursez.AddCourse(ctx, testOwner, &core.Course{
		CourseID:    courseID,
		Name:        name,
		Price:       decimal.NewFromInt(price),
		MetadataURI: metadataURI,
	})
	require.Nil(t, err)
	return id
}

func (env *testEnv) fundLearner(t *testing.T, learner string, balance, allowance int64) {
	ctx := context.Background()
	if balance > 0 {
		require.Nil(t, env.tokens.Mint(ctx, learner, decimal.NewFromInt(balance)))
	}
	require.Nil(t, env.tokens.Approve(ctx, learner, testMarket, decimal.NewFromInt(allowance)))
}

func (env *testEnv) authorizeMinter(t *testing.T) {
	require.Nil(t, env.certificates.SetMinter(context.Background(), testMarket, true))
}

func (env *testEnv) balance(t *testing.T, user string) decimal.Decimal {
	balance, err := env.tokens.BalanceOf(context.Background(), user)
	require.Nil(t, err)
	return balance
}

func TestPurchaseAndCompleteScenario(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t, core.Market{Address: testMarket, PayoutAddress: testOwner})
	env.authorizeMinter(t)

	env.addCourse(t, "COURSE-001", "basic conversation", 10, "ipfs://course-001.json")
	env.fundLearner(t, "alice", 100, 10)

	require.Nil(t, env.marketz.PurchaseCourse(ctx, "alice", "COURSE-001"))

	assert.Equal(t, "90", env.balance(t, "alice").String())
	assert.Equal(t, "10", env.balance(t, testOwner).String())

	has, err := env.marketz.HasCourse(ctx, "alice", "COURSE-001")
	require.Nil(t, err)
	assert.True(t, has)

	tokenID, err := env.marketz.CompleteCourse(ctx, testOracle, "alice", "COURSE-001")
	require.Nil(t, err)
	assert.True(t, tokenID > 0)

	owner, err := env.certificates.OwnerOf(ctx, tokenID)
	require.Nil(t, err)
	assert.Equal(t, "alice", owner)

	uri, err := env.certificates.TokenURI(ctx, tokenID)
	require.Nil(t, err)
	assert.Equal(t, "ipfs://course-001.json", uri)

	// double completion is refused and no second certificate appears
	_, err = env.marketz.CompleteCourse(ctx, testOracle, "alice", "COURSE-001")
	assert.Equal(t, core.ErrAlreadyCompleted, err)

	count, err := env.certificates.BalanceOf(ctx, "alice")
	require.Nil(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPurchaseTwice(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t, core.Market{Address: testMarket})

	env.addCourse(t, "COURSE-001", "basic conversation", 10, "")
	env.fundLearner(t, "alice", 100, 100)

	require.Nil(t, env.marketz.PurchaseCourse(ctx, "alice", "COURSE-001"))
	assert.Equal(t, core.ErrAlreadyPurchased, env.marketz.PurchaseCourse(ctx, "alice", "COURSE-001"))

	// charged exactly once
	assert.Equal(t, "90", env.balance(t, "alice").String())
}

func TestPurchaseUnknownCourse(t *testing.T) {
	env := setupTestEnv(t, core.Market{Address: testMarket})
	err := env.marketz.PurchaseCourse(context.Background(), "alice", "COURSE-404")
	assert.Equal(t, core.ErrCourseNotFound, err)
}

func TestPurchaseInactiveCourse(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t, core.Market{Address: testMarket})

	id := env.addCourse(t, "COURSE-001", "basic conversation", 10, "")
	require.Nil(t, env.coursez.SetActive(ctx, testOwner, id, false))
	env.fundLearner(t, "alice", 100, 100)

	assert.Equal(t, core.ErrCourseInactive, env.marketz.PurchaseCourse(ctx, "alice", "COURSE-001"))
}

func TestPurchaseInsufficientBalance(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t, core.Market{Address: testMarket})

	env.addCourse(t, "COURSE-001", "basic conversation", 10, "")
	env.fundLearner(t, "alice", 5, 10)

	assert.Equal(t, core.ErrPaymentFailed, env.marketz.PurchaseCourse(ctx, "alice", "COURSE-001"))

	has, err := env.marketz.HasCourse(ctx, "alice", "COURSE-001")
	require.Nil(t, err)
	assert.False(t, has)
	assert.Equal(t, "5", env.balance(t, "alice").String())
}

func TestPurchaseInsufficientAllowance(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t, core.Market{Address: testMarket})

	env.addCourse(t, "COURSE-001", "basic conversation", 10, "")
	env.fundLearner(t, "alice", 100, 5)

	assert.Equal(t, core.ErrPaymentFailed, env.marketz.PurchaseCourse(ctx, "alice", "COURSE-001"))
	assert.Equal(t, "100", env.balance(t, "alice").String())
}

func TestPurchaseFreeCourse(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t, core.Market{Address: testMarket})

	env.addCourse(t, "COURSE-FREE", "open lecture", 0, "")

	// no balance, no allowance: a free course still purchases
	require.Nil(t, env.marketz.PurchaseCourse(ctx, "alice", "COURSE-FREE"))

	has, err := env.marketz.HasCourse(ctx, "alice", "COURSE-FREE")
	require.Nil(t, err)
	assert.True(t, has)
	assert.Equal(t, "0", env.balance(t, "alice").String())
}

func TestPurchasePayoutToMarket(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t, core.Market{Address: testMarket})

	env.addCourse(t, "COURSE-001", "basic conversation", 10, "")
	env.fundLearner(t, "alice", 100, 10)

	require.Nil(t, env.marketz.PurchaseCourse(ctx, "alice", "COURSE-001"))

	// no payout address configured: revenue accrues to the market account
	assert.Equal(t, "10", env.balance(t, testMarket).String())
	assert.Equal(t, "0", env.balance(t, testOwner).String())
}

func TestCompleteBeforePurchase(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t, core.Market{Address: testMarket})
	env.authorizeMinter(t)

	env.addCourse(t, "COURSE-001", "basic conversation", 10, "")

	_, err := env.marketz.CompleteCourse(ctx, testOracle, "alice", "COURSE-001")
	assert.Equal(t, core.ErrNotPurchased, err)

	supply, err := env.certificates.TotalSupply(ctx)
	require.Nil(t, err)
	assert.Equal(t, int64(0), supply)
}

func TestCompleteUnauthorized(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t, core.Market{Address: testMarket})
	env.authorizeMinter(t)

	env.addCourse(t, "COURSE-001", "basic conversation", 10, "")
	env.fundLearner(t, "alice", 100, 10)
	require.Nil(t, env.marketz.PurchaseCourse(ctx, "alice", "COURSE-001"))

	_, err := env.marketz.CompleteCourse(ctx, "mallory", "alice", "COURSE-001")
	assert.Equal(t, core.ErrUnauthorized, err)

	_, err = env.marketz.CompleteCourse(ctx, testOwner, "alice", "COURSE-001")
	assert.Equal(t, core.ErrUnauthorized, err)
}

func TestCompleteWithoutMinterAuthorization(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t, core.Market{Address: testMarket})

	env.addCourse(t, "COURSE-001", "basic conversation", 10, "")
	env.fundLearner(t, "alice", 100, 10)
	require.Nil(t, env.marketz.PurchaseCourse(ctx, "alice", "COURSE-001"))

	// market not in the minter set: completion fails and rolls back
	_, err := env.marketz.CompleteCourse(ctx, testOracle, "alice", "COURSE-001")
	assert.Equal(t, core.ErrMintNotAllowed, err)

	enrollment, err := env.enrollments.Find(ctx, "alice", "COURSE-001")
	require.Nil(t, err)
	assert.True(t, enrollment.Purchased)
	assert.False(t, enrollment.Completed)

	// owner fixes the configuration and the same completion succeeds
	env.authorizeMinter(t)
	tokenID, err := env.marketz.CompleteCourse(ctx, testOracle, "alice", "COURSE-001")
	require.Nil(t, err)
	assert.True(t, tokenID > 0)
}

func TestOracleRotation(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t, core.Market{Address: testMarket})
	env.authorizeMinter(t)

	env.addCourse(t, "COURSE-001", "basic conversation", 10, "")
	env.fundLearner(t, "alice", 100, 10)
	require.Nil(t, env.marketz.PurchaseCourse(ctx, "alice", "COURSE-001"))

	require.Nil(t, env.roles.TransferOracle(ctx, testOwner, "oracle-b"))

	// the former oracle lost the role the moment the new one gained it
	_, err := env.marketz.CompleteCourse(ctx, testOracle, "alice", "COURSE-001")
	assert.Equal(t, core.ErrUnauthorized, err)

	tokenID, err := env.marketz.CompleteCourse(ctx, "oracle-b", "alice", "COURSE-001")
	require.Nil(t, err)
	assert.True(t, tokenID > 0)
}

func TestMintURIFallback(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t, core.Market{Address: testMarket})
	env.authorizeMinter(t)

	_, err := env.coursez.AddCourse(ctx, testOwner, &core.Course{
		CourseID: "COURSE-002",
		Name:     "business english",
		Price:    decimal.NewFromInt(20),
		MediaURI: "ipfs://media-002",
	})
	require.Nil(t, err)

	env.fundLearner(t, "bob", 100, 20)
	require.Nil(t, env.marketz.PurchaseCourse(ctx, "bob", "COURSE-002"))

	tokenID, err := env.marketz.CompleteCourse(ctx, testOracle, "bob", "COURSE-002")
	require.Nil(t, err)

	uri, err := env.certificates.TokenURI(ctx, tokenID)
	require.Nil(t, err)
	assert.Equal(t, "ipfs://media-002", uri)
}

type brokenTokenLedger struct {
	core.ITokenLedger
}

func (l brokenTokenLedger) TransferFrom(ctx context.Context, tx *db.DB, spender, from, to string, amount decimal.Decimal) error {
	return errors.New("disk I/O error")
}

type brokenCertificateRegistry struct {
	core.ICertificateRegistry
}

func (r brokenCertificateRegistry) Mint(ctx context.Context, tx *db.DB, minter, owner, tokenURI string) (uint64, error) {
	return 0, errors.New("disk I/O error")
}

func TestPurchaseInfrastructureFailureStaysRetryable(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t, core.Market{Address: testMarket})

	env.addCourse(t, "COURSE-001", "basic conversation", 10, "")
	env.fundLearner(t, "alice", 100, 10)

	broken := New(env.db, core.Market{Address: testMarket}, env.courses, env.enrollments, env.events, brokenTokenLedger{env.tokens}, env.certificates, env.roles)

	// a ledger breakdown is not a payment refusal; the raw error surfaces
	// so callers retry instead of treating it as terminal
	err := broken.PurchaseCourse(ctx, "alice", "COURSE-001")
	require.NotNil(t, err)

	var code core.ErrorCode
	assert.False(t, errors.As(err, &code))

	has, err := env.marketz.HasCourse(ctx, "alice", "COURSE-001")
	require.Nil(t, err)
	assert.False(t, has)

	// the same purchase succeeds once the ledger recovers
	require.Nil(t, env.marketz.PurchaseCourse(ctx, "alice", "COURSE-001"))
}

func TestCompleteInfrastructureFailureStaysRetryable(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t, core.Market{Address: testMarket})
	env.authorizeMinter(t)

	env.addCourse(t, "COURSE-001", "basic conversation", 10, "")
	env.fundLearner(t, "alice", 100, 10)
	require.Nil(t, env.marketz.PurchaseCourse(ctx, "alice", "COURSE-001"))

	broken := New(env.db, core.Market{Address: testMarket}, env.courses, env.enrollments, env.events, env.tokens, brokenCertificateRegistry{env.certificates}, env.roles)

	_, err := broken.CompleteCourse(ctx, testOracle, "alice", "COURSE-001")
	require.NotNil(t, err)

	var code core.ErrorCode
	assert.False(t, errors.As(err, &code))

	enrollment, err := env.enrollments.Find(ctx, "alice", "COURSE-001")
	require.Nil(t, err)
	assert.False(t, enrollment.Completed)

	tokenID, err := env.marketz.CompleteCourse(ctx, testOracle, "alice", "COURSE-001")
	require.Nil(t, err)
	assert.True(t, tokenID > 0)
}

func TestCompletionEventRecorded(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t, core.Market{Address: testMarket})
	env.authorizeMinter(t)

	env.addCourse(t, "COURSE-001", "basic conversation", 10, "")
	env.fundLearner(t, "alice", 100, 10)
	require.Nil(t, env.marketz.PurchaseCourse(ctx, "alice", "COURSE-001"))

	tokenID, err := env.marketz.CompleteCourse(ctx, testOracle, "alice", "COURSE-001")
	require.Nil(t, err)

	events, err := env.events.FindByUser(ctx, "alice", 10)
	require.Nil(t, err)
	require.True(t, len(events) >= 2)

	completed := events[0]
	assert.Equal(t, core.ActionTypeCourseCompleted, completed.Action)
	assert.Equal(t, "COURSE-001", completed.CourseID)
	assert.Equal(t, tokenID, completed.TokenID)
}
