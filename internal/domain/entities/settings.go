package entities

// NotificationSettings are the per-user delivery toggles
type NotificationSettings struct {
	EmailNotifications   bool `json:"emailNotifications"`
	SMSNotifications     bool `json:"smsNotifications"`
	AppointmentReminders bool `json:"appointmentReminders"`
	SystemAlerts         bool `json:"systemAlerts"`
}

// SystemSettings are site-wide settings managed by the super-admin
type SystemSettings struct {
	SiteName        string `json:"siteName"`
	ContactEmail    string `json:"contactEmail"`
	SMSAPIKey       string `json:"smsApiKey"`
	Description     string `json:"description"`
	MaintenanceMode bool   `json:"maintenanceMode"`
}

// DefaultNotificationSettings is returned before the user saves any
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		EmailNotifications:   true,
		SMSNotifications:     true,
		AppointmentReminders: true,
		SystemAlerts:         true,
	}
}

// DefaultSystemSettings is returned before the super-admin saves any
func DefaultSystemSettings() SystemSettings {
	return SystemSettings{
		SiteName:     "عيادة",
		ContactEmail: "info@clinic.com",
		SMSAPIKey:    "********",
		Description:  "نظام متكامل لإدارة العيادات وحجز المواعيد الطبية",
	}
}
