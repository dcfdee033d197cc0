package crm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailAlreadyTaken(t *testing.T) {
	assert.True(t, emailAlreadyTaken([]byte(`{"errors":{"email":["The email has already been taken."]}}`)))
	assert.True(t, emailAlreadyTaken([]byte(`{"violations":[{"propertyPath":"email","message":"This value is already used."}]}`)))
	assert.False(t, emailAlreadyTaken([]byte(`{"violations":[{"propertyPath":"firstName","message":"This value is already used."}]}`)))
	assert.False(t, emailAlreadyTaken([]byte(`{"errors":{"email":["This value is not a valid email address."]}}`)))
	assert.False(t, emailAlreadyTaken([]byte(`not json`)))
}
