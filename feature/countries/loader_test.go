package countries

import (
	"net/http/httptest"
	"testing"

	"country-api/core/loader"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLoader(t *testing.T) {
	f := setupService(t)
	feature := NewFeature(f.svc.spec, f.store, nil, zap.NewNop())

	assert.Equal(t, "countries", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.NotNil(t, feature.Service())

	app := fiber.New()
	m := loader.NewManager(zap.NewNop())
	m.Register(feature)
	assert.NoError(t, m.LoadAll(app))

	resp, err := app.Test(httptest.NewRequest("GET", "/status", nil))
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
