package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// WizardSessionKey returns the cache key for an in-flight exam creation wizard.
func (r *CacheKeyStruct) WizardSessionKey(sessionID string) string {
	return fmt.Sprintf("wizard:%s", sessionID)
}

// SettingKeyTheme is the console_settings key holding the console theme.
const SettingKeyTheme = "console.theme"

var CacheKey = NewCacheKeyStruct()
