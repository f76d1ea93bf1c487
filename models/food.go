package models

// 食物类别
const (
	CategoryStaple    = "staple"
	CategoryProtein   = "protein"
	CategoryVegetable = "vegetable"
	CategoryFruit     = "fruit"
	CategorySnack     = "snack"
)

var FoodCategories = []string{CategoryStaple, CategoryProtein, CategoryVegetable, CategoryFruit, CategorySnack}

// Food 食物库
type Food struct {
	ID            uint     `gorm:"primaryKey" json:"id"`
	Name          string   `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Category      string   `gorm:"type:varchar(50);index;not null" json:"category"`
	Calories      *float64 `json:"calories"` // 每100克
	Description   string   `gorm:"type:text" json:"description"`
	IsRecommended bool     `gorm:"default:true;not null" json:"is_recommended"`
}
