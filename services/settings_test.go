package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobinette/inkwell"
	"github.com/bobinette/inkwell/errors"
)

func TestSettingsService(t *testing.T) {
	env := newEnv()
	service := NewSettingsService(env.store, env.engine)

	user := env.addUser("u1", inkwell.RoleUser, inkwell.VisibilityPrivate)

	// Defaults before anything has been saved.
	assert.Equal(t, inkwell.DefaultSettings(), service.Get())

	_, err := service.Save(Guest(), inkwell.SettingsPatch{})
	if assert.Error(t, err, "guests cannot change settings") {
		errors.AssertCode(t, err, 403)
	}

	// A partial patch only touches the fields it carries.
	theme := "dark"
	gridSize := 120
	saved, err := service.Save(user, inkwell.SettingsPatch{Theme: &theme, GridSize: &gridSize})
	require.NoError(t, err)
	assert.Equal(t, "dark", saved.Theme)
	assert.Equal(t, 120, saved.GridSize)
	assert.Equal(t, inkwell.GridMi, saved.GridType, "untouched field keeps its default")

	assert.Equal(t, saved, service.Get())

	// A failed push restores the previous settings.
	env.engine.Wait()
	env.persistence.fail("system")
	light := "light"
	_, err = service.Save(user, inkwell.SettingsPatch{Theme: &light})
	require.NoError(t, err)

	env.engine.Wait()

	assert.Equal(t, "dark", service.Get().Theme, "settings rolled back")
	assert.Equal(t, []string{"settings"}, env.notices.channels())
}
