package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	HealthHandler  *HealthHandler
	AuthHandler    *AuthHandler
	ItemHandler    *ItemHandler
	ActionHandler  *ActionHandler
	ProductHandler *ProductHandler
	UploadHandler  *UploadHandler
	AdminHandler   *AdminHandler
}
