package repositories

import (
	"context"
	"testing"
	"time"

	"stocksense/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ProductRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      ProductRepository
	productID uuid.UUID
	context   context.Context
}

func (suite *ProductRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewProductRepository(mock)
	suite.productID = uuid.New()
	suite.context = context.Background()
}

func (suite *ProductRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestProductRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ProductRepoTestSuite))
}

func (suite *ProductRepoTestSuite) TestCreate_Success() {
	product := &models.Product{
		ID:       suite.productID,
		Name:     "Widget",
		SKU:      "SKU-1718000000000",
		Category: "Tools",
		Price:    9.99,
		StockQty: 25,
		Status:   "Available",
	}

	suite.mock.ExpectExec(`INSERT INTO products`).
		WithArgs(product.ID, product.Name, product.SKU, product.Category, product.Description,
			product.Price, product.StockQty, product.Status, product.Location, product.ImageObject,
			product.ExpiryDate).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, product)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ProductRepoTestSuite) TestGetByID_Success() {
	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "name", "sku", "category", "description", "price",
		"stock_qty", "status", "location", "image_object", "expiry_date", "created_at", "updated_at"}).
		AddRow(suite.productID, "Widget", "SKU-1", "Tools", (*string)(nil), 9.99, 25, "Available",
			(*string)(nil), (*string)(nil), (*time.Time)(nil), now, now)

	suite.mock.ExpectQuery(`SELECT .+ FROM products WHERE id = \$1`).
		WithArgs(suite.productID).
		WillReturnRows(rows)

	product, err := suite.repo.GetByID(suite.context, suite.productID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Widget", product.Name)
	assert.Equal(suite.T(), 25, product.StockQty)
	assert.Nil(suite.T(), product.ExpiryDate)
}

func (suite *ProductRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`SELECT .+ FROM products WHERE id = \$1`).
		WithArgs(suite.productID).
		WillReturnError(pgx.ErrNoRows)

	product, err := suite.repo.GetByID(suite.context, suite.productID)
	assert.Nil(suite.T(), product)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *ProductRepoTestSuite) TestUpdate_NotFound() {
	product := &models.Product{ID: suite.productID, Name: "Widget"}

	suite.mock.ExpectExec(`UPDATE products`).
		WithArgs(product.ID, product.Name, product.Category, product.Description, product.Price,
			product.StockQty, product.Status, product.Location, product.ExpiryDate).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.Update(suite.context, product)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *ProductRepoTestSuite) TestDelete_Success() {
	suite.mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
		WithArgs(suite.productID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.context, suite.productID)
	assert.NoError(suite.T(), err)
}

func (suite *ProductRepoTestSuite) TestList_Success() {
	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "name", "sku", "category", "description", "price",
		"stock_qty", "status", "location", "image_object", "expiry_date", "created_at", "updated_at"}).
		AddRow(uuid.New(), "Widget", "SKU-1", "Tools", (*string)(nil), 9.99, 25, "Available",
			(*string)(nil), (*string)(nil), (*time.Time)(nil), now, now).
		AddRow(uuid.New(), "Gadget", "SKU-2", "Tools", (*string)(nil), 19.99, 5, "Available",
			(*string)(nil), (*string)(nil), (*time.Time)(nil), now, now)

	suite.mock.ExpectQuery(`SELECT .+ FROM products ORDER BY created_at DESC`).
		WithArgs(50, 0).
		WillReturnRows(rows)

	products, err := suite.repo.List(suite.context, 50, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), products, 2)
	assert.Equal(suite.T(), "Gadget", products[1].Name)
}
