package models

// Upload is a stored proof file. StorageKey addresses the object in the
// configured storage driver; OCRAmount is the amount read from the image,
// zero when OCR found nothing or the file is a PDF.
type Upload struct {
	Base
	FileName    string `gorm:"size:255;not null"`
	StorageKey  string `gorm:"size:512;not null;uniqueIndex"`
	ContentType string `gorm:"size:128"`
	Size        int64
	UserID      *uint `gorm:"index"`
	User        *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	OCRAmount   int64
	// Failed marks an OCR failure; the record stays so the proof can be reviewed.
	Failed       bool   `gorm:"default:false;index"`
	FailedReason string `gorm:"size:255"`
}
