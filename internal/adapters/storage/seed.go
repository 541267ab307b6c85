package storage

import "github.com/zatekoja/clinicdesk/internal/domain/entities"

// DemoAppointments is the appointment book written on first access
func DemoAppointments() []entities.Appointment {
	return []entities.Appointment{
		{ID: 1, PatientName: "محمد علي", PatientPhone: "0555123456", Date: "2025-04-07", Time: "09:30",
			Doctor: "د. أحمد الخالد", Status: entities.AppointmentStatusScheduled, ClinicName: "عيادة الأسنان"},
		{ID: 2, PatientName: "سارة العبدالله", PatientPhone: "0555789012", Date: "2025-04-07", Time: "10:15",
			Doctor: "د. فاطمة الزهراني", Status: entities.AppointmentStatusInProgress, ClinicName: "عيادة الجلدية"},
		{ID: 3, PatientName: "خالد العمري", PatientPhone: "0555456789", Date: "2025-04-07", Time: "11:00",
			Doctor: "د. عبدالرحمن العتيبي", Status: entities.AppointmentStatusCompleted, ClinicName: "عيادة العيون"},
		{ID: 4, PatientName: "نورة الشمري", PatientPhone: "0555234567", Date: "2025-04-08", Time: "09:30",
			Doctor: "د. هند السعيد", Status: entities.AppointmentStatusScheduled, ClinicName: "عيادة الأطفال"},
		{ID: 5, PatientName: "أحمد الزهراني", PatientPhone: "0555345678", Date: "2025-04-08", Time: "11:30",
			Doctor: "د. عبدالله المالكي", Status: entities.AppointmentStatusScheduled, ClinicName: "عيادة الأسنان"},
		{ID: 6, PatientName: "فاطمة القحطاني", PatientPhone: "0555456789", Date: "2025-04-06", Time: "13:00",
			Doctor: "د. منال العتيبي", Status: entities.AppointmentStatusCanceled, ClinicName: "عيادة الجلدية"},
	}
}

// DemoClinics is the clinic registry written on first access
func DemoClinics() []entities.Clinic {
	return []entities.Clinic{
		{ID: 1, Name: "عيادة الرحمة", Specialization: "طب الأسنان", Address: "الجمهورية اليمنية, صنعاء",
			Phone: "0112345678", Status: entities.ClinicStatusActive},
		{ID: 2, Name: "مركز النور التخصصي", Specialization: "طب العيون", Address: "شارع التحلية، جدة",
			Phone: "0123456789", Status: entities.ClinicStatusActive},
		{ID: 3, Name: "عيادة الشفاء", Specialization: "الأمراض الجلدية", Address: "شارع الأمير سلطان، الدمام",
			Phone: "0134567890", Status: entities.ClinicStatusPending},
		{ID: 4, Name: "مركز الحياة الطبي", Specialization: "جراحة عامة", Address: "شارع العليا، الرياض",
			Phone: "0145678901", Status: entities.ClinicStatusSuspended},
		{ID: 5, Name: "عيادة السلام", Specialization: "طب الأطفال", Address: "شارع المدينة المنورة، مكة",
			Phone: "0156789012", Status: entities.ClinicStatusActive},
		{ID: 6, Name: "مركز الصحة الشاملة", Specialization: "طب العظام", Address: "شارع الأمير محمد، الرياض",
			Phone: "0167890123", Status: entities.ClinicStatusActive},
		{ID: 7, Name: "عيادة الأمل", Specialization: "الأمراض الجلدية", Address: "شارع الملك سعود، جدة",
			Phone: "0178901234", Status: entities.ClinicStatusPending},
	}
}

// DemoPayments is the payment ledger written on first access
func DemoPayments() []entities.Payment {
	return []entities.Payment{
		{ID: 1, PatientName: "خالد محمد", ClinicName: "عيادة الأمل", Amount: 350, Date: "2025-04-05",
			PaymentMethod: entities.PaymentMethodCreditCard, Status: entities.PaymentStatusCompleted},
		{ID: 2, PatientName: "فاطمة أحمد", ClinicName: "عيادة الشفاء", Amount: 500, Date: "2025-04-04",
			PaymentMethod: entities.PaymentMethodCash, Status: entities.PaymentStatusCompleted},
		{ID: 3, PatientName: "عبدالله العلي", ClinicName: "مركز الحياة الطبي", Amount: 275, Date: "2025-04-03",
			PaymentMethod: entities.PaymentMethodBankTransfer, Status: entities.PaymentStatusPending},
		{ID: 4, PatientName: "سارة محمد", ClinicName: "عيادة العيون", Amount: 425, Date: "2025-04-02",
			PaymentMethod: entities.PaymentMethodCreditCard, Status: entities.PaymentStatusFailed},
		{ID: 5, PatientName: "محمد عبدالرحمن", ClinicName: "عيادة الأسنان", Amount: 600, Date: "2025-04-01",
			PaymentMethod: entities.PaymentMethodCash, Status: entities.PaymentStatusCompleted},
	}
}
