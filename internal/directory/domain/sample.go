package domain

import "time"

var sampleTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

var sampleCategories = []Category{
	{ID: 1, Name: "Food & Dining", Slug: "food-dining"},
	{ID: 2, Name: "Technology", Slug: "technology"},
	{ID: 3, Name: "Health & Beauty", Slug: "health-beauty"},
	{ID: 4, Name: "Automotive", Slug: "automotive"},
	{ID: 5, Name: "Real Estate", Slug: "real-estate"},
	{ID: 6, Name: "Education", Slug: "education"},
	{ID: 7, Name: "Professional Services", Slug: "professional-services"},
	{ID: 8, Name: "Home & Garden", Slug: "home-garden"},
}

// SampleCategories returns the built-in category list used when the
// categories endpoint is unavailable.
func SampleCategories() []Category {
	out := make([]Category, len(sampleCategories))
	copy(out, sampleCategories)
	return out
}

func sampleBusiness(id, user, name string, cat Category, desc, phone, email, website, address string, rating float64, reviews int) Listing {
	return Listing{
		ID:          id,
		Kind:        KindBusiness,
		UserID:      user,
		Name:        name,
		Category:    cat,
		Description: desc,
		Phone:       phone,
		Email:       email,
		Website:     website,
		Address:     address,
		City:        "Nairobi",
		County:      "Nairobi",
		State:       "Nairobi",
		ZipCode:     "00100",
		Latitude:    -1.2921,
		Longitude:   36.8219,
		Rating:      rating,
		ReviewCount: reviews,
		IsVerified:  true,
		IsFeatured:  true,
		IsActive:    true,
		ImageURL:    "/lovable-uploads/placeholder.svg",
		LogoURL:     "/lovable-uploads/placeholder.svg",
		CreatedAt:   sampleTime,
		UpdatedAt:   sampleTime,
	}
}

func sampleJob(id, title, company string, cat Category, city, locationType, employment string, min, max float64, period, desc string, featured bool) Listing {
	return Listing{
		ID:             id,
		Kind:           KindJob,
		Name:           title,
		Category:       cat,
		Description:    desc,
		City:           city,
		County:         city,
		Company:        company,
		EmploymentType: employment,
		LocationType:   locationType,
		SalaryMin:      min,
		SalaryMax:      max,
		SalaryPeriod:   period,
		IsVerified:     true,
		IsFeatured:     featured,
		IsActive:       true,
		CreatedAt:      sampleTime,
		UpdatedAt:      sampleTime,
	}
}

// SampleListings returns the fixed collection substituted when a live fetch
// of the given kind fails. Every call returns a fresh slice.
func SampleListings(kind Kind) []Listing {
	if kind == KindJob {
		return []Listing{
			sampleJob("1", "Senior Painter", "CreativeSpaces Co.", sampleCategories[7], "Nairobi", "On-site", "Full-time",
				25, 35, "hourly", "We're looking for an experienced painter to join our team for residential and commercial projects.", true),
			sampleJob("2", "Software Engineer", "TechFaith Solutions", sampleCategories[1], "Remote", "Remote", "Full-time",
				85000, 110000, "yearly", "Join our development team to create applications that serve our church community.", false),
			sampleJob("3", "Youth Ministry Coordinator", "FEM Family Church", sampleCategories[5], "Mombasa", "Hybrid", "Full-time",
				45000, 55000, "yearly", "Passionate about guiding youth? Help coordinate our church's youth programs and activities.", false),
		}
	}
	return []Listing{
		sampleBusiness("1", "user1", "Sarah's Catering", sampleCategories[0],
			"Delicious catering services for all occasions", "+254-700-123-456", "sarah@catering.com",
			"https://sarahscatering.com", "123 Main Street", 4.8, 45),
		sampleBusiness("2", "user2", "Tech Solutions Pro", sampleCategories[1],
			"Professional IT services and web development", "+254-700-234-567", "mike@techsolutions.com",
			"https://techsolutionspro.com", "456 Tech Avenue", 4.9, 32),
		sampleBusiness("3", "user3", "Grace Beauty Salon", sampleCategories[2],
			"Professional beauty and wellness services", "+254-700-345-678", "grace@beautysalon.com",
			"https://gracebeautysalon.com", "789 Beauty Lane", 4.7, 28),
	}
}
