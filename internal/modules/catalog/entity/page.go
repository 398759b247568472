package entity

// Page is one harvested web page. Rows are written by the catalog adapter's
// SQL exporter, one per finding.
type Page struct {
	ID    uint   `gorm:"column:id;primaryKey;autoIncrement"`
	URL   string `gorm:"column:url;type:varchar(2048);not null"`
	Title string `gorm:"column:title;type:varchar(512)"`

	CreatedAt int64 `gorm:"column:created_at;type:bigint;not null;autoCreateTime:milli"`
}

func (Page) TableName() string {
	return "pages"
}
