package clinicdata

import "time"

// SeedDocument returns the dataset written on first run, mirroring the demo
// data the clinic ships with.
func SeedDocument() *Document {
	now := time.Now().UTC()
	return &Document{
		Appointments: []Appointment{
			{ID: 1, Patient: "Sarah Johnson", Date: "2023-10-25", Time: "10:00 AM", Type: "Root Canal", Doctor: "Dr. Wilson", Status: StatusConfirmed, Notes: "Patient requires anesthesia"},
			{ID: 2, Patient: "Mike Brown", Date: "2023-10-25", Time: "11:30 AM", Type: "Dental Cleaning", Doctor: "Dr. Wilson", Status: StatusPending, Notes: "Routine checkup"},
			{ID: 3, Patient: "Emily Davis", Date: "2023-10-26", Time: "09:00 AM", Type: "Consultation", Doctor: "Dr. Wilson", Status: StatusConfirmed, Notes: "New patient"},
		},
		Patients: []Patient{
			{ID: 1, Name: "Sarah Johnson", Age: "28", LastVisit: "2023-09-15", Condition: "Healthy", NextAppt: "2023-10-25"},
			{ID: 2, Name: "Mike Brown", Age: "35", LastVisit: "2023-08-20", Condition: "Gingivitis", NextAppt: "2023-10-25"},
			{ID: 3, Name: "Emily Davis", Age: "24", LastVisit: "N/A", Condition: "New Patient", NextAppt: "2023-10-26"},
		},
		Messages: []Message{
			{ID: 1, Text: "Dr. Wilson, could we reschedule my Tuesday visit?", Sender: "Sarah J.", Role: "doctor", Read: false, Timestamp: now},
			{ID: 2, Text: "Your lab results are ready for review.", Sender: "Lab Corp", Role: "doctor", Read: true, Timestamp: now.Add(-24 * time.Hour)},
			{ID: 3, Text: "Reminder: Your appointment is tomorrow at 10 AM.", Sender: "System", Role: "patient", Read: false, Timestamp: now},
		},
		Doctors: []Doctor{
			{ID: 1, Name: "Dr. Anjali Sharma", Specialty: "General Physician", Patients: 120, Rating: 4.9, Available: true},
			{ID: 2, Name: "Dr. Ramesh Verma", Specialty: "Dermatologist", Patients: 85, Rating: 4.8, Available: true},
			{ID: 3, Name: "Dr. Sarah Wilson", Specialty: "Dentist", Patients: 200, Rating: 4.9, Available: true},
		},
	}
}
