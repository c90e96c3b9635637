package view

// DefaultImageFallback is used for products without a configured image.
const DefaultImageFallback = "https://via.placeholder.com/150"

// ImageCatalog maps product ids to image URLs.
type ImageCatalog struct {
	fallback  string
	byProduct map[uint]string
}

func NewImageCatalog(fallback string, byProduct map[uint]string) *ImageCatalog {
	if fallback == "" {
		fallback = DefaultImageFallback
	}
	images := make(map[uint]string, len(byProduct))
	for id, url := range byProduct {
		if url != "" {
			images[id] = url
		}
	}
	return &ImageCatalog{fallback: fallback, byProduct: images}
}

// URL never returns an empty string.
func (c *ImageCatalog) URL(productID uint) string {
	if c == nil {
		return DefaultImageFallback
	}
	if url, ok := c.byProduct[productID]; ok {
		return url
	}
	return c.fallback
}
