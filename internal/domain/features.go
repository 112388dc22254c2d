package domain

// Feature - позиция справочника опций комфорта и безопасности машины.
// Машина хранит только коды выбранных опций (Vehicle.Features)
type Feature struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// FeatureCatalog возвращает статический справочник опций.
// Порядок фиксированный - клиенты рисуют чеклист как есть
func FeatureCatalog() []Feature {
	return []Feature{
		{Code: "high_back_seats", Label: "High-back reclining seats"},
		{Code: "adjustable_armrests", Label: "Adjustable armrests"},
		{Code: "extra_legroom", Label: "Extra legroom"},
		{Code: "individual_seatbelts", Label: "Individual seatbelts"},
		{Code: "full_ac", Label: "Full air conditioning"},
		{Code: "tinted_windows", Label: "Tinted windows"},
		{Code: "coolbox", Label: "Coolbox / mini fridge"},
		{Code: "overhead_racks", Label: "Overhead luggage racks"},
		{Code: "boot_luggage", Label: "Boot luggage space"},
		{Code: "lcd_screens", Label: "LCD screens"},
		{Code: "audio_system", Label: "Audio system"},
		{Code: "wifi_free", Label: "Free Wi-Fi"},
		{Code: "microphone_pa", Label: "Microphone / PA system"},
		{Code: "usb_charging", Label: "USB charging ports"},
		{Code: "abs_ebs", Label: "ABS / EBS brakes"},
		{Code: "airbags", Label: "Airbags"},
		{Code: "fire_extinguisher", Label: "Fire extinguisher"},
		{Code: "gps_tracking", Label: "GPS tracking"},
		{Code: "emergency_exits", Label: "Emergency exits"},
		{Code: "led_mood_lights", Label: "LED mood lighting"},
		{Code: "reading_lamps", Label: "Reading lamps"},
		{Code: "air_suspension", Label: "Air suspension"},
		{Code: "onboard_restroom", Label: "Onboard restroom"},
		{Code: "panoramic_windows", Label: "Panoramic windows"},
	}
}

// IsKnownFeature проверяет, что код опции есть в справочнике
func IsKnownFeature(code string) bool {
	for _, f := range FeatureCatalog() {
		if f.Code == code {
			return true
		}
	}
	return false
}
