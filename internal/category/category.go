package category

import (
	"sort"
	"strings"
)

// Category names a destination folder grouping.
type Category string

const (
	Installers Category = "Installers"
	Documents  Category = "Documents"
	Images     Category = "Images"
	Videos     Category = "Videos"
	Audio      Category = "Audio"
	Archives   Category = "Archives"
	Code       Category = "Code"
	Other      Category = "Other"
)

var ordered = []Category{Installers, Documents, Images, Videos, Audio, Archives, Code, Other}

var extensionsByCategory = map[Category][]string{
	Installers: {".dmg", ".pkg", ".app", ".mpkg", ".exe", ".msi", ".deb", ".rpm", ".appimage"},
	Documents: {
		".pdf", ".doc", ".docx", ".txt", ".rtf", ".odt", ".xls", ".xlsx", ".csv",
		".numbers", ".ppt", ".pptx", ".keynote", ".pages", ".epub",
	},
	Images: {".jpg", ".jpeg", ".png", ".gif", ".svg", ".heic", ".webp", ".bmp", ".tiff", ".ico"},
	Videos: {".mp4", ".mov", ".avi", ".mkv", ".webm", ".flv", ".wmv", ".m4v", ".mpg", ".mpeg"},
	Audio:  {".mp3", ".m4a", ".wav", ".aac", ".flac", ".ogg", ".wma", ".opus"},
	Archives: {
		".zip", ".rar", ".7z", ".tar", ".gz", ".bz2", ".xz", ".tgz",
		".tar.gz", ".tar.bz2", ".tar.xz",
	},
	Code: {
		".json", ".yaml", ".yml", ".xml", ".toml", ".py", ".js", ".ts", ".tsx", ".jsx",
		".swift", ".java", ".cpp", ".c", ".h", ".go", ".rs", ".rb", ".php", ".md",
		".rst", ".sh", ".bash",
	},
}

var table = buildTable()

func buildTable() map[string]Category {
	out := make(map[string]Category)
	for cat, exts := range extensionsByCategory {
		for _, ext := range exts {
			if existing, ok := out[ext]; ok && existing != cat {
				panic("category: extension " + ext + " mapped twice")
			}
			out[ext] = cat
		}
	}
	return out
}

// All returns every category in canonical order.
func All() []Category {
	return append([]Category(nil), ordered...)
}

// Parse resolves a category name case-insensitively.
func Parse(name string) (Category, bool) {
	trimmed := strings.TrimSpace(name)
	for _, cat := range ordered {
		if strings.EqualFold(trimmed, string(cat)) {
			return cat, true
		}
	}
	return "", false
}

// Extensions returns the sorted extensions mapped to cat. Other has none.
func Extensions(cat Category) []string {
	exts := append([]string(nil), extensionsByCategory[cat]...)
	sort.Strings(exts)
	return exts
}

// FolderName returns the folder a category's files are moved into.
func FolderName(prefix string, cat Category) string {
	return prefix + string(cat)
}

// Lookup returns the category for a file name together with the extension
// that matched. Unknown names map to Other with their final suffix.
func Lookup(name string) (Category, string) {
	lower := strings.ToLower(name)
	for i := 1; i < len(lower); i++ {
		if lower[i] != '.' {
			continue
		}
		if cat, ok := table[lower[i:]]; ok {
			return cat, lower[i:]
		}
	}
	return Other, finalSuffix(lower)
}

func finalSuffix(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 {
		return ""
	}
	return name[idx:]
}
