package services

import "github.com/shopspring/decimal"

// DefaultCatalog is the storefront's launch catalog.
func DefaultCatalog() []SeedProduct {
	return []SeedProduct{
		{
			Name:        "Netflix Premium",
			Description: "4K + HDR, 4 Screens, Unlimited Movies & TV shows.",
			Price:       decimal.RequireFromString("4.99"),
			Category:    "Streaming",
			Image:       "https://images.unsplash.com/photo-1574375927938-d5a98e8ffe85?q=80&w=800&auto=format&fit=crop",
			Features:    []string{"4K (Ultra HD) + HDR", "4 Screens at once", "Unlimited downloads", "Watch on any device"},
		},
		{
			Name:        "Spotify Premium",
			Description: "Ad-free music, Offline play, Unlimited skips.",
			Price:       decimal.RequireFromString("2.99"),
			Category:    "Music",
			Image:       "https://images.unsplash.com/photo-1614680376593-902f74cc0d41?q=80&w=800&auto=format&fit=crop",
			Features:    []string{"Ad-free music listening", "Download to listen offline", "Unlimited skips", "High quality audio"},
		},
		{
			Name:        "PlayStation Plus",
			Description: "Monthly games, Online multiplayer, Exclusive discounts.",
			Price:       decimal.RequireFromString("5.99"),
			Category:    "Gaming",
			Image:       "https://images.unsplash.com/photo-1606144042614-b2417e99c4e3?q=80&w=800&auto=format&fit=crop",
			Features:    []string{"Online multiplayer", "Monthly games", "Exclusive discounts", "Cloud storage"},
		},
		{
			Name:        "Adobe Creative Cloud",
			Description: "20+ apps including Photoshop, Illustrator, and Premiere Pro.",
			Price:       decimal.RequireFromString("12.99"),
			Category:    "Design",
			Image:       "https://images.unsplash.com/photo-1626785774573-4b799315345d?q=80&w=800&auto=format&fit=crop",
			Features:    []string{"20+ Creative Apps", "100GB Cloud Storage", "Adobe Portfolio", "Adobe Fonts"},
		},
		{
			Name:        "YouTube Premium",
			Description: "Ad-free YouTube, Background play, YouTube Music Premium.",
			Price:       decimal.RequireFromString("3.49"),
			Category:    "Streaming",
			Image:       "https://images.unsplash.com/photo-1611162617213-7d7a39e9b1d7?q=80&w=800&auto=format&fit=crop",
			Features:    []string{"Ad-free YouTube", "Background play", "Downloads", "YouTube Music Premium"},
		},
		{
			Name:        "Disney+",
			Description: "New releases, Classics, and Originals from Disney, Pixar, Marvel, Star Wars, and Nat Geo.",
			Price:       decimal.RequireFromString("4.49"),
			Category:    "Streaming",
			Image:       "https://images.unsplash.com/photo-1605142859862-978be7eba909?q=80&w=800&auto=format&fit=crop",
			Features:    []string{"GroupWatch", "Unlimited downloads", "4K Ultra HD", "Up to 7 profiles"},
		},
	}
}
