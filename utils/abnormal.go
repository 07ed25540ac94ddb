package utils

import "github.com/Rakib5627/mixer-machine-server/models"

// Operating envelope for the mixing machine's sensors.
const (
	MinTemperature = 10.0
	MaxTemperature = 45.0
	MinHumidity    = 20.0
	MaxHumidity    = 90.0
	MaxCurrent     = 10.0 // amps; a stalled motor draws well above this
)

// CheckAbnormality determines whether the sensor data is abnormal.
func CheckAbnormality(data models.SensorPayload) bool {
	return GetAbnormalType(data) != ""
}

// GetAbnormalType returns a string describing which sensor reading is
// abnormal, or "" when the reading is within range.
func GetAbnormalType(data models.SensorPayload) string {
	if data.Temperature < MinTemperature || data.Temperature > MaxTemperature {
		return "Temperature"
	}
	if data.Humidity < MinHumidity || data.Humidity > MaxHumidity {
		return "Humidity"
	}
	if data.Current < 0 || data.Current > MaxCurrent {
		return "Current"
	}
	return ""
}
