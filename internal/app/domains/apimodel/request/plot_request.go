package request

// CreatePlotRequest 创建地块请求
type CreatePlotRequest struct {
	Name        string  `json:"name" binding:"required,max=100" example:"North Field"`
	Description string  `json:"description" example:"Drip irrigated"`
	Location    string  `json:"location" binding:"required,max=255" example:"Valley 3"`
	CropType    string  `json:"crop_type" binding:"required,max=100" example:"wheat"`
	Size        float64 `json:"size" binding:"required,gt=0" example:"2.5"`
}

// PageQuery 分页参数
type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1" example:"1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=200" example:"20"`
}
