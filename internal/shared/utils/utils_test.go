package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "simple", id: "home"},
		{name: "snake and kebab", id: "friend_card-2"},
		{name: "empty", id: "", wantErr: true},
		{name: "space", id: "friend card", wantErr: true},
		{name: "path", id: "../home", wantErr: true},
		{name: "too long", id: strings.Repeat("a", MaxIDLength+1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id, "id", true)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("ada"))
	assert.NoError(t, ValidateUsername("ada.lovelace"))
	assert.Error(t, ValidateUsername(""))
	assert.Error(t, ValidateUsername("ada lovelace"))
	assert.Error(t, ValidateUsername("ada\x00"))
}

func TestValidateTags(t *testing.T) {
	assert.NoError(t, ValidateTags(nil))
	assert.NoError(t, ValidateTags([]string{"social", "cards"}))
	assert.Error(t, ValidateTags([]string{""}))
	assert.Error(t, ValidateTags(make([]string, MaxTagCount+1)))
}

func TestValidateTitle(t *testing.T) {
	assert.NoError(t, ValidateTitle("", "title"))
	assert.NoError(t, ValidateTitle("Friends", "title"))
	assert.Error(t, ValidateTitle(strings.Repeat("x", MaxTitleLength+1), "title"))
}

func TestHasher(t *testing.T) {
	h := DefaultHasher()

	assert.Equal(t, h.Hash([]byte("views")), h.Hash([]byte("views")))
	assert.NotEqual(t, h.Hash([]byte("views")), h.Hash([]byte("view")))
	assert.Len(t, h.Hash(nil), 64)
	assert.Equal(t, h.Hash([]byte("views")), NewHasher().Hash([]byte("views")))
}
