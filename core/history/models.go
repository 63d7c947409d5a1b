package history

import "time"

// ReleaseSnapshot is the last recorded state of a release product.
type ReleaseSnapshot struct {
	ProductID       string    `gorm:"column:product_id;type:varchar(191);primaryKey" json:"productId"`
	Name            string    `gorm:"column:name;type:varchar(255)" json:"name"`
	SetName         string    `gorm:"column:set_name;type:varchar(255)" json:"setName"`
	Category        string    `gorm:"column:category;type:varchar(32)" json:"category"`
	Status          *string   `gorm:"column:status;type:varchar(32)" json:"status,omitempty"`
	ReleaseDate     *string   `gorm:"column:release_date;type:varchar(32)" json:"releaseDate,omitempty"`
	EstimatedResale *float64  `gorm:"column:estimated_resale;type:double" json:"estimatedResale,omitempty"`
	MSRP            *float64  `gorm:"column:msrp;type:double" json:"msrp,omitempty"`
	Confidence      *string   `gorm:"column:confidence;type:varchar(32)" json:"confidence,omitempty"`
	SourceURL       *string   `gorm:"column:source_url;type:varchar(512)" json:"sourceUrl,omitempty"`
	UpdatedAt       time.Time `gorm:"column:updated_at;type:datetime(3)" json:"updatedAt"`
}

func (ReleaseSnapshot) TableName() string {
	return "release_snapshots"
}

// ReleaseChange records one field of a product changing between two reconciliations.
type ReleaseChange struct {
	ID          string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	ProductID   string    `gorm:"column:product_id;type:varchar(191);index" json:"productId"`
	ProductName string    `gorm:"column:product_name;type:varchar(255)" json:"productName"`
	SetName     string    `gorm:"column:set_name;type:varchar(255)" json:"setName"`
	Category    string    `gorm:"column:category;type:varchar(32)" json:"category"`
	Field       string    `gorm:"column:field;type:varchar(64)" json:"field"`
	OldValue    *string   `gorm:"column:old_value;type:text" json:"oldValue"`
	NewValue    *string   `gorm:"column:new_value;type:text" json:"newValue"`
	DetectedAt  time.Time `gorm:"column:detected_at;type:datetime(3);index" json:"detectedAt"`
	SourceURL   *string   `gorm:"column:source_url;type:varchar(512)" json:"sourceUrl,omitempty"`
}

func (ReleaseChange) TableName() string {
	return "release_changes"
}

// Models lists every table owned by the history store.
func Models() []interface{} {
	return []interface{}{ReleaseSnapshot{}, ReleaseChange{}}
}
