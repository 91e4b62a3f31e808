package domain

import "time"

// Kind distinguishes the two listing collections served by the directory.
type Kind string

const (
	KindBusiness Kind = "business"
	KindJob      Kind = "job"
)

// IsValid reports whether k is one of the known kinds.
func (k Kind) IsValid() bool {
	return k == KindBusiness || k == KindJob
}

// Category is read-only reference data, fetched once per session.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Listing is a business or job record shown in the directory. ID is assigned
// by the backend and never changes.
type Listing struct {
	ID          string   `json:"id"`
	Kind        Kind     `json:"kind,omitempty"`
	UserID      string   `json:"user,omitempty"`
	Name        string   `json:"business_name"`
	Category    Category `json:"category"`
	Description string   `json:"description"`

	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Website string `json:"website,omitempty"`

	Address   string  `json:"address,omitempty"`
	City      string  `json:"city"`
	County    string  `json:"county"`
	State     string  `json:"state,omitempty"`
	ZipCode   string  `json:"zip_code,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`

	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	IsVerified  bool    `json:"is_verified"`
	IsFeatured  bool    `json:"is_featured"`
	IsActive    bool    `json:"is_active"`
	IsFavorite  bool    `json:"is_favorite"`

	ImageURL string `json:"business_image_url,omitempty"`
	LogoURL  string `json:"business_logo_url,omitempty"`

	// Job listings only.
	Company        string     `json:"company,omitempty"`
	EmploymentType string     `json:"employment_type,omitempty"`
	LocationType   string     `json:"location_type,omitempty"`
	SalaryMin      float64    `json:"salary_min,omitempty"`
	SalaryMax      float64    `json:"salary_max,omitempty"`
	SalaryPeriod   string     `json:"salary_period,omitempty"`
	Deadline       *time.Time `json:"deadline,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListingInput is the create payload sent to the backend. Required-field
// validation belongs to the caller.
type ListingInput struct {
	Name        string  `json:"business_name" validate:"required,max=200"`
	CategoryID  int     `json:"category_id" validate:"required,gt=0"`
	Description string  `json:"description" validate:"required"`
	Phone       string  `json:"phone,omitempty"`
	Email       string  `json:"email,omitempty" validate:"omitempty,email"`
	Website     string  `json:"website,omitempty" validate:"omitempty,url"`
	Address     string  `json:"address,omitempty"`
	City        string  `json:"city" validate:"required"`
	County      string  `json:"county" validate:"required"`
	State       string  `json:"state,omitempty"`
	ZipCode     string  `json:"zip_code,omitempty"`
	Latitude    float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude   float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`

	Company        string     `json:"company,omitempty"`
	EmploymentType string     `json:"employment_type,omitempty"`
	LocationType   string     `json:"location_type,omitempty"`
	SalaryMin      float64    `json:"salary_min,omitempty" validate:"omitempty,gte=0"`
	SalaryMax      float64    `json:"salary_max,omitempty" validate:"omitempty,gtefield=SalaryMin"`
	SalaryPeriod   string     `json:"salary_period,omitempty"`
	Deadline       *time.Time `json:"deadline,omitempty"`
}

// ListingPatch is a partial update; nil fields are left untouched by the backend.
type ListingPatch struct {
	Name        *string  `json:"business_name,omitempty" validate:"omitempty,min=1,max=200"`
	CategoryID  *int     `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	Description *string  `json:"description,omitempty"`
	Phone       *string  `json:"phone,omitempty"`
	Email       *string  `json:"email,omitempty" validate:"omitempty,email"`
	Website     *string  `json:"website,omitempty" validate:"omitempty,url"`
	Address     *string  `json:"address,omitempty"`
	City        *string  `json:"city,omitempty"`
	County      *string  `json:"county,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
	SalaryMin   *float64 `json:"salary_min,omitempty" validate:"omitempty,gte=0"`
	SalaryMax   *float64 `json:"salary_max,omitempty" validate:"omitempty,gte=0"`
}

// Page is the backend's pagination envelope for list endpoints.
type Page struct {
	Count    int       `json:"count"`
	Next     *string   `json:"next"`
	Previous *string   `json:"previous"`
	Results  []Listing `json:"results"`
}

func (p Page) HasNext() bool     { return p.Next != nil && *p.Next != "" }
func (p Page) HasPrevious() bool { return p.Previous != nil && *p.Previous != "" }

// Cursor is the pagination state derived from the last list response.
type Cursor struct {
	CurrentPage int  `json:"current_page"`
	TotalCount  int  `json:"total_count"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}
