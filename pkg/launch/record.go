package launch

// Имена обязательных колонок датасета (точное совпадение после TrimSpace)
const (
	ColumnSite            = "Launch Site"
	ColumnPayload         = "Payload Mass (kg)"
	ColumnClass           = "class"
	ColumnBoosterCategory = "Booster Version Category"
)

// RequiredColumns - колонки, без которых загрузка невозможна, в порядке проверки
var RequiredColumns = []string{ColumnSite, ColumnPayload, ColumnClass, ColumnBoosterCategory}

// Значения outcome class
const (
	ClassFailure = 0
	ClassSuccess = 1
)

// Record - одна строка датасета (один запуск)
type Record struct {
	Site            string  `json:"launch_site"`
	PayloadMassKg   float64 `json:"payload_mass_kg"`
	Class           int     `json:"class"`
	BoosterCategory string  `json:"booster_version_category"`
}

// Success возвращает true для успешного запуска
func (r Record) Success() bool {
	return r.Class == ClassSuccess
}
