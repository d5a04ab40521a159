package settings

import (
	"time"

	"github.com/ordishs/gocore"
)

func getString(key, defaultValue string) string {
	value, found := gocore.Config().Get(key)
	if !found {
		return defaultValue
	}

	return value
}

func getInt(key string, defaultValue int) int {
	value, found := gocore.Config().GetInt(key)
	if !found {
		return defaultValue
	}

	return value
}

func getBool(key string, defaultValue bool) bool {
	return gocore.Config().GetBool(key, defaultValue)
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, err, _ := gocore.Config().GetDuration(key, defaultValue)
	if err != nil {
		return defaultValue
	}

	return value
}
