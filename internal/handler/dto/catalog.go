package dto

// CreateProductRequest is the body of POST /api/products.
type CreateProductRequest struct {
	Title    string `json:"title" validate:"required"`
	Image    string `json:"image"`
	Link     string `json:"link"`
	LowPrice int    `json:"lprice" validate:"gte=0,lte=2147483647"`
}

// UpdateProductRequest is the body of PUT /api/products/{id}.
type UpdateProductRequest struct {
	MyPrice *int `json:"myprice" validate:"required,gte=0,lte=2147483647"`
}

// CreateFoldersRequest is the body of POST /api/folders.
type CreateFoldersRequest struct {
	FolderNames []string `json:"folderNames" validate:"required,min=1,dive,required,max=100"`
}
