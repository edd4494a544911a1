package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"stocksense/internal/models"
	"stocksense/internal/report"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockProductRepository mocks the ProductRepository interface for testing
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) UpdateImageObject(ctx context.Context, id uuid.UUID, objectName string) error {
	args := m.Called(ctx, id, objectName)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

// ExpiryAlertServiceTestSuite is the test suite for ExpiryAlertService
type ExpiryAlertServiceTestSuite struct {
	suite.Suite
	mockProductRepo *MockProductRepository
	service         *ExpiryAlertService
	frozenNow       time.Time
}

func (suite *ExpiryAlertServiceTestSuite) SetupTest() {
	suite.mockProductRepo = &MockProductRepository{}
	suite.frozenNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	suite.service = &ExpiryAlertService{
		productRepo: suite.mockProductRepo,
		now:         func() time.Time { return suite.frozenNow },
	}
}

func (suite *ExpiryAlertServiceTestSuite) TearDownTest() {
	suite.mockProductRepo.AssertExpectations(suite.T())
}

func (suite *ExpiryAlertServiceTestSuite) product(name string, stock int, expiresIn time.Duration) *models.Product {
	expiry := suite.frozenNow.Add(expiresIn)
	return &models.Product{
		ID:         uuid.New(),
		Name:       name,
		SKU:        "SKU-" + name,
		StockQty:   stock,
		ExpiryDate: &expiry,
	}
}

func (suite *ExpiryAlertServiceTestSuite) TestCheckExpiry_ClassifiesAndSorts() {
	ctx := context.Background()

	noExpiry := &models.Product{ID: uuid.New(), Name: "Canned Beans", SKU: "SKU-Beans", StockQty: 50}
	catalogue := []*models.Product{
		suite.product("Yogurt", 20, 20*24*time.Hour),
		suite.product("Milk", 12, 3*24*time.Hour),
		suite.product("Cheese", 5, -2*24*time.Hour),
		suite.product("Flour", 80, 90*24*time.Hour),
		noExpiry,
	}

	suite.mockProductRepo.On("List", ctx, alertScanLimit, 0).Return(catalogue, nil).Once()

	alerts, err := suite.service.CheckExpiry(ctx)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), alerts, 3) // Flour is beyond the horizon, Canned Beans has no date

	// Soonest first
	assert.Equal(suite.T(), "Cheese", alerts[0].Name)
	assert.Equal(suite.T(), report.ExpiryExpired, alerts[0].Status)
	assert.Equal(suite.T(), "Milk", alerts[1].Name)
	assert.Equal(suite.T(), report.ExpiryCritical, alerts[1].Status)
	assert.Equal(suite.T(), "Yogurt", alerts[2].Name)
	assert.Equal(suite.T(), report.ExpiryWarning, alerts[2].Status)
}

func (suite *ExpiryAlertServiceTestSuite) TestCheckExpiry_EmptyCatalogue() {
	ctx := context.Background()

	suite.mockProductRepo.On("List", ctx, alertScanLimit, 0).Return([]*models.Product{}, nil).Once()

	alerts, err := suite.service.CheckExpiry(ctx)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), alerts)
}

func (suite *ExpiryAlertServiceTestSuite) TestCheckExpiry_RepoError() {
	ctx := context.Background()

	suite.mockProductRepo.On("List", ctx, alertScanLimit, 0).
		Return(nil, errors.New("connection refused")).Once()

	alerts, err := suite.service.CheckExpiry(ctx)
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), alerts)
}

func (suite *ExpiryAlertServiceTestSuite) TestCheckLowStock_FloorBehavior() {
	ctx := context.Background()

	catalogue := []*models.Product{
		{ID: uuid.New(), Name: "Bolts", SKU: "SKU-B", StockQty: 3},
		{ID: uuid.New(), Name: "Nuts", SKU: "SKU-N", StockQty: 10}, // at the floor, included
		{ID: uuid.New(), Name: "Screws", SKU: "SKU-S", StockQty: 11},
	}

	suite.mockProductRepo.On("List", ctx, alertScanLimit, 0).Return(catalogue, nil).Once()

	low, err := suite.service.CheckLowStock(ctx, 0) // 0 falls back to the default floor
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), low, 2)
	assert.Equal(suite.T(), "Bolts", low[0].Name)
	assert.Equal(suite.T(), "Nuts", low[1].Name)
}

func (suite *ExpiryAlertServiceTestSuite) TestScheduledExpiryCheck_RunsBothScans() {
	ctx := context.Background()

	catalogue := []*models.Product{
		suite.product("Milk", 4, 3*24*time.Hour),
	}

	suite.mockProductRepo.On("List", ctx, alertScanLimit, 0).Return(catalogue, nil).Twice()

	err := suite.service.ScheduledExpiryCheck(ctx)
	assert.NoError(suite.T(), err)
}

func TestExpiryAlertServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExpiryAlertServiceTestSuite))
}
