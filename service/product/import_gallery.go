package product

import (
	"encoding/json"

	catalogEntity "giftshop.GO/model/entity/catalog"
)

var galleryColumns = map[string]bool{
	"image_url": true, "images": true,
}

// galleryData holds the image columns of each product id.
type galleryData struct {
	imageURL map[string]string
	images   map[string][]string
}

// collectGallery gathers image URLs per product id. A repeated id adds its
// images to the product's list; duplicates are dropped.
func collectGallery(rows [][]string, colIndex map[string]int) *galleryData {
	d := &galleryData{imageURL: make(map[string]string), images: make(map[string][]string)}
	_, hasURL := colIndex["image_url"]
	_, hasImages := colIndex["images"]
	if !hasURL && !hasImages {
		return d
	}

	seen := make(map[string]bool)
	for _, row := range rows {
		id := cell(row, colIndex, "id")
		if id == "" {
			continue
		}
		if v := cell(row, colIndex, "image_url"); v != "" {
			if _, ok := d.imageURL[id]; !ok {
				d.imageURL[id] = v
			}
		}
		for _, img := range splitList(cell(row, colIndex, "images")) {
			key := id + ":" + img
			if seen[key] {
				continue
			}
			seen[key] = true
			d.images[id] = append(d.images[id], img)
		}
	}
	return d
}

// apply sets the image columns. Several images are stored as a JSON array,
// a single one as the plain URL.
func (d *galleryData) apply(products []catalogEntity.Product) {
	for i := range products {
		p := &products[i]
		p.ImageURL = d.imageURL[p.ID]
		switch imgs := d.images[p.ID]; len(imgs) {
		case 0:
		case 1:
			p.Images = imgs[0]
		default:
			b, _ := json.Marshal(imgs)
			p.Images = string(b)
		}
	}
}
