package storage

import "strconv"

// Store keys. Each is namespaced further by the driver's key prefix.
const (
	KeyAppointments         = "appointments"
	KeyClinics              = "clinics"
	KeyPrescriptions        = "prescriptions"
	KeyPayments             = "payments"
	KeyRequestedRole        = "requestedRole"
	KeyUserNotifications    = "userNotifications"
	KeyNotificationSettings = "notificationSettings"
	KeySystemSettings       = "systemSettings"
	KeyUserPhone            = "userPhone"

	clinicHoursPrefix = "clinicHours-"
	clinicUserPrefix  = "clinicUser-"
)

// ClinicHoursKey returns the key holding one clinic's weekly hours
func ClinicHoursKey(clinicID int) string {
	return clinicHoursPrefix + strconv.Itoa(clinicID)
}

// ClinicUserKey returns the key holding one signed-in user
func ClinicUserKey(userID string) string {
	return clinicUserPrefix + userID
}
