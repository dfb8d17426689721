package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giftshop.GO/config"
)

func TestFS_UpAndDownPerDialect(t *testing.T) {
	for _, dir := range []string{"mysql", "postgres"} {
		entries, err := fs.ReadDir(FS, dir)
		require.NoError(t, err)
		ups, downs := 0, 0
		for _, e := range entries {
			switch {
			case strings.HasSuffix(e.Name(), ".up.sql"):
				ups++
			case strings.HasSuffix(e.Name(), ".down.sql"):
				downs++
			}
		}
		assert.Equal(t, ups, downs, dir)
		assert.NotZero(t, ups, dir)
	}
}

func TestDatabaseURL(t *testing.T) {
	dir, url, err := DatabaseURL(&config.Config{DBDriver: "mysql", MySQL: config.MySQL{DSN: "u:p@tcp(db:3306)/shop?parseTime=true"}})
	require.NoError(t, err)
	assert.Equal(t, "mysql", dir)
	assert.Equal(t, "mysql://u:p@tcp(db:3306)/shop?parseTime=true&multiStatements=true", url)

	_, url, err = DatabaseURL(&config.Config{DBDriver: "postgres", PostgresDSN: "postgresql://u:p@db/shop?sslmode=disable"})
	require.NoError(t, err)
	assert.Equal(t, "pgx5://u:p@db/shop?sslmode=disable", url)

	_, _, err = DatabaseURL(&config.Config{DBDriver: "postgres", PostgresDSN: "host=db user=u"})
	assert.Error(t, err)

	_, _, err = DatabaseURL(&config.Config{DBDriver: "sqlite"})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}
