package models

// Profile представляет анкету пользователя в каталоге знакомств.
type Profile struct {
	ID         string `json:"id"`
	UserUID    string `json:"userUid"`
	FullName   string `json:"fullName"`
	Age        int    `json:"age"`
	Gender     string `json:"gender"`
	City       string `json:"city"`
	Religion   string `json:"religion"`
	Occupation string `json:"occupation"`
	Education  string `json:"education"`  // Доступно только в расширенных фильтрах
	Income     string `json:"income"`     // Доступно только в расширенных фильтрах
	About      string `json:"about"`
	PhotoURL   string `json:"photoUrl"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// ProfileFilter параметры поиска анкет. Расширенные поля учитываются
// только когда у пользователя есть возможность CanUseAdvancedFilters.
type ProfileFilter struct {
	Gender    string // Базовый фильтр
	City      string // Базовый фильтр
	Religion  string // Базовый фильтр
	AgeMin    int    // Базовый фильтр
	AgeMax    int    // Базовый фильтр
	Education string // Расширенный фильтр
	Income    string // Расширенный фильтр
}

// DummyProfileUpdate используется для приёма изменений анкеты из JSON-запроса.
type DummyProfileUpdate struct {
	FullName   string `json:"full_name" validate:"omitempty,max=120"`
	Age        int    `json:"age" validate:"omitempty,gte=18,lte=99"`
	City       string `json:"city" validate:"omitempty,max=80"`
	Religion   string `json:"religion" validate:"omitempty,max=80"`
	Occupation string `json:"occupation" validate:"omitempty,max=120"`
	Education  string `json:"education" validate:"omitempty,max=120"`
	Income     string `json:"income" validate:"omitempty,max=80"`
	About      string `json:"about" validate:"omitempty,max=2000"`
	PhotoURL   string `json:"photo_url" validate:"omitempty,url"`
}
