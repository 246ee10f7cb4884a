package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestTableName(t *testing.T) {
	assert.Equal(t, "kv_products", TableName("products"))
	assert.Equal(t, "kv_efibanksettings", TableName("efiBankSettings"))
	assert.Equal(t, "kv_a_b", TableName("a-b"))
}

func TestMySQLStoreReadAll(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer mockDB.Close()

	rows := sqlmock.NewRows([]string{"id", "data"}).
		AddRow("product-1", []byte(`{"name":"one"}`)).
		AddRow("product-2", []byte(`{"name":"two"}`))
	mock.ExpectQuery("^SELECT id, data FROM kv_products ORDER BY position$").WillReturnRows(rows)

	s := NewMySQLStore(mockDB)
	records, err := s.ReadAll(context.Background(), CollectionProducts)

	assert.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, "product-1", records[0].ID)
	assert.Equal(t, "product-2", records[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStoreReadByIDNotFound(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer mockDB.Close()

	mock.ExpectQuery("^SELECT id, data FROM kv_orders WHERE id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	s := NewMySQLStore(mockDB)
	_, err = s.ReadByID(context.Background(), CollectionOrders, "missing")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStoreAppend(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer mockDB.Close()

	mock.ExpectExec("^INSERT INTO kv_products").
		WithArgs("product-1", []byte(`{"name":"one"}`)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	s := NewMySQLStore(mockDB)
	err = s.Append(context.Background(), CollectionProducts, Record{ID: "product-1", Data: []byte(`{"name":"one"}`)})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStoreReplaceMissingRecord(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer mockDB.Close()

	countRows := sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(0)
	mock.ExpectQuery("^SELECT COUNT").WithArgs("missing").WillReturnRows(countRows)

	s := NewMySQLStore(mockDB)
	err = s.Replace(context.Background(), CollectionOrders, "missing", Record{ID: "missing", Data: []byte(`{}`)})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStoreReplaceExistingRecord(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer mockDB.Close()

	countRows := sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(1)
	mock.ExpectQuery("^SELECT COUNT").WithArgs("order-1").WillReturnRows(countRows)
	mock.ExpectExec("^UPDATE kv_orders SET data").
		WithArgs([]byte(`{"total":39.8}`), "order-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := NewMySQLStore(mockDB)
	err = s.Replace(context.Background(), CollectionOrders, "order-1", Record{ID: "order-1", Data: []byte(`{"total":39.8}`)})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
