package model

// Page titles rendered by the controllers and the fallback handlers.
const (
	HomeTitle         = "Culinary Delights - Resep Lezat"
	MealNotFoundTitle = "Resep Tidak Ditemukan"
	PageNotFoundTitle = "Halaman Tidak Ditemukan"
	ServerErrorTitle  = "Server Error"
)

// HomeView is the data handed to the home template.
type HomeView struct {
	Title            string
	Meals            []MealSummary
	Categories       []Category
	SelectedCategory string
}

// DetailView is the data handed to the meal-detail template.
type DetailView struct {
	Title string
	Meal  *MealDetail
}

// NotFoundView is the data handed to the 404 template.
type NotFoundView struct {
	Title   string
	Message string
}

// ErrorView is the data handed to the error template. Message and Stack are
// masked in production.
type ErrorView struct {
	Title   string
	Message string
	Stack   string
}

// ProductionErrorMessage replaces error detail on the error page in production.
const ProductionErrorMessage = "Maaf, terjadi kesalahan pada server."

// ResourceNotFoundMessage is shown on the 404 page for unmatched routes.
const ResourceNotFoundMessage = "resource not found"
