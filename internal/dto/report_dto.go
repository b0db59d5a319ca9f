package dto

import "time"

type CreateReportRequest struct {
	Category     string    `json:"category"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ProvinceID   string    `json:"province_id"`
	CityID       string    `json:"city_id"`
	DistrictID   string    `json:"district_id"`
	Location     string    `json:"location"`
	IncidentDate time.Time `json:"incident_date"`
	Relation     string    `json:"relation"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}
