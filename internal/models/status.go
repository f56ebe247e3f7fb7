package models

// Status is the shared lifecycle vocabulary for projects, areas and tasks.
// Tasks start at "bekliyor"; projects and areas never hold it. Any level can
// reach "tamamlandi"; "durduruldu" only ever appears on projects.
type Status string

const (
	StatusBekliyor   Status = "bekliyor"   // waiting
	StatusPlanlandi  Status = "planlandi"  // planned
	StatusUretimde   Status = "uretimde"   // in production
	StatusMontaj     Status = "montaj"     // installation
	StatusKontrol    Status = "kontrol"    // inspection
	StatusTamamlandi Status = "tamamlandi" // completed
	StatusDurduruldu Status = "durduruldu" // stopped
)

// ValidTaskStatus reports whether s is a status a task may hold.
func ValidTaskStatus(s Status) bool {
	switch s {
	case StatusBekliyor, StatusPlanlandi, StatusUretimde, StatusMontaj, StatusKontrol, StatusTamamlandi:
		return true
	}
	return false
}

// ValidProjectStatus reports whether s is a status a project may hold.
func ValidProjectStatus(s Status) bool {
	switch s {
	case StatusPlanlandi, StatusUretimde, StatusMontaj, StatusKontrol, StatusTamamlandi, StatusDurduruldu:
		return true
	}
	return false
}

// IsLocked reports whether a project in status s refuses child mutations.
func (s Status) IsLocked() bool {
	return s == StatusTamamlandi || s == StatusDurduruldu
}
