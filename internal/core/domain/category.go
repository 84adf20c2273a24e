package domain

// Category is an entry of the browsing catalogue. Job categories are free
// strings; the catalogue only lists the well-known ones.
type Category struct {
	Slug  string `json:"slug"`
	Label string `json:"label"`
}

var Categories = []Category{
	{Slug: "programming_tech", Label: "Programming & Tech"},
	{Slug: "graphics_design", Label: "Graphics & Design"},
	{Slug: "digital_marketing", Label: "Digital Marketing"},
	{Slug: "writing_translation", Label: "Writing & Translation"},
	{Slug: "video_animation", Label: "Video & Animation"},
	{Slug: "music_audio", Label: "Music & Audio"},
	{Slug: "business", Label: "Business"},
	{Slug: "data", Label: "Data"},
	{Slug: "lifestyle", Label: "Lifestyle"},
}
