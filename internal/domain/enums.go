package domain

// Provider names.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderClaude = "claude"
)

// ImageType represents the allowed image types for upload.
type ImageType string

const (
	ImageTypeJPG  ImageType = "jpg"
	ImageTypePNG  ImageType = "png"
	ImageTypeWEBP ImageType = "webp"
	ImageTypeGIF  ImageType = "gif"
)

// AllowedImageTypes maps ImageType to its MIME content type.
var AllowedImageTypes = map[ImageType]string{
	ImageTypeJPG:  "image/jpeg",
	ImageTypePNG:  "image/png",
	ImageTypeWEBP: "image/webp",
	ImageTypeGIF:  "image/gif",
}

// AllowedImageExtensions maps file extensions (without dot) to ImageType.
var AllowedImageExtensions = map[string]ImageType{
	"jpg":  ImageTypeJPG,
	"jpeg": ImageTypeJPG,
	"png":  ImageTypePNG,
	"webp": ImageTypeWEBP,
	"gif":  ImageTypeGIF,
}

// ExportFormat selects the encoding of a test-area export.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
	ExportJSON ExportFormat = "json"
)
