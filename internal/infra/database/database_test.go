package database

import (
	"testing"

	"storefront-service/internal/config"
	"storefront-service/internal/domain"
	"storefront-service/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

func TestDialector(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.DBConfig
		want    string
		wantErr bool
	}{
		{name: "mysql", cfg: config.DBConfig{Driver: config.DriverMySQL, Host: "h", Port: "3306", User: "u", Name: "d"}, want: "mysql"},
		{name: "postgres", cfg: config.DBConfig{Driver: config.DriverPostgres, DSN: "postgres://x"}, want: "postgres"},
		{name: "sqlite", cfg: config.DBConfig{Driver: config.DriverSQLite, Name: ":memory:"}, want: "sqlite"},
		{name: "unknown", cfg: config.DBConfig{Driver: "oracle"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Dialector(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}
}

func TestOpen_SQLiteMigratesSchema(t *testing.T) {
	db, err := Open(config.DBConfig{
		Driver:       config.DriverSQLite,
		DSN:          "file:database_open_test?mode=memory&cache=shared",
		MaxOpenConns: 4,
		MaxIdleConns: 1,
	}, logger.Nop())
	require.NoError(t, err)

	for _, model := range []interface{}{&domain.User{}, &domain.Product{}, &domain.Order{}, &domain.OrderProduct{}} {
		assert.True(t, db.Migrator().HasTable(model))
	}
	assert.True(t, db.Migrator().HasIndex(&domain.Order{}, "ux_orders_open_slot"))
}

func TestSQLiteDSN(t *testing.T) {
	tests := map[string]string{
		"app.db":                          "app.db?_foreign_keys=on",
		":memory:":                        ":memory:?_foreign_keys=on",
		"file:x?mode=memory&cache=shared": "file:x?mode=memory&cache=shared&_foreign_keys=on",
		"app.db?_foreign_keys=off":        "app.db?_foreign_keys=off",
		"app.db?_fk=1":                    "app.db?_fk=1",
	}
	for in, want := range tests {
		assert.Equal(t, want, SQLiteDSN(in), in)
	}
}

func TestOpen_SQLiteEnforcesProductForeignKey(t *testing.T) {
	db, err := Open(config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    "file:database_fk_test?mode=memory&cache=shared",
	}, logger.Nop())
	require.NoError(t, err)

	user := &domain.User{Username: "fk", PasswordDigest: "x"}
	require.NoError(t, db.Create(user).Error)
	product := &domain.Product{Name: "anvil", Price: 100}
	require.NoError(t, db.Create(product).Error)
	order := &domain.Order{UserID: user.ID, Status: domain.StatusFulfilled}
	require.NoError(t, db.Create(order).Error)

	err = db.Create(&domain.OrderProduct{OrderID: order.ID, ProductID: product.ID + 1000, Quantity: 1}).Error
	assert.ErrorIs(t, err, gorm.ErrForeignKeyViolated)

	require.NoError(t, db.Create(&domain.OrderProduct{OrderID: order.ID, ProductID: product.ID, Quantity: 1}).Error)
	err = db.Delete(&domain.Product{}, product.ID).Error
	assert.ErrorIs(t, err, gorm.ErrForeignKeyViolated)
}

func TestOpen_GormErrorsGoToZap(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logg := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	db, err := Open(config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    "file:database_log_test?mode=memory&cache=shared",
	}, logg)
	require.NoError(t, err)

	require.Error(t, db.Exec("SELECT * FROM missing_table").Error)

	entries := logs.FilterField(zap.String("component", "gorm")).All()
	require.NotEmpty(t, entries)
	assert.Contains(t, entries[len(entries)-1].Message, "missing_table")
}
