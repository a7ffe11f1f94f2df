package mongo

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"assetcatalog/internal/domain"
)

// sortFields maps sortable fields to document keys
var sortFields = map[domain.SortField]string{
	domain.SortName:      "name",
	domain.SortPrice:     "price",
	domain.SortCreatedAt: "created_at",
	domain.SortUpdatedAt: "updated_at",
}

// buildFilter translates q into a find filter. The name is quoted so user
// input is matched literally.
func buildFilter(q domain.Query) bson.M {
	filter := bson.M{}

	if q.Name != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(q.Name), Options: "i"}
	}

	if q.MinPrice != nil || q.MaxPrice != nil {
		price := bson.M{}
		if q.MinPrice != nil {
			price["$gte"] = *q.MinPrice
		}
		if q.MaxPrice != nil {
			price["$lte"] = *q.MaxPrice
		}
		filter["price"] = price
	}

	return filter
}

// buildSort returns the sort document, or nil to keep natural order.
// _id breaks ties so equal keys stay in insertion order.
func buildSort(q domain.Query) bson.D {
	key, ok := sortFields[q.SortField]
	if !ok {
		return nil
	}
	dir := 1
	if q.Order() == domain.SortDesc {
		dir = -1
	}
	return bson.D{{Key: key, Value: dir}, {Key: "_id", Value: 1}}
}

// buildUpdate returns a $set document holding only the supplied fields
func buildUpdate(p domain.EntityPatch, now time.Time) bson.M {
	set := bson.M{"updated_at": now}

	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Price != nil {
		set["price"] = *p.Price
	}
	if p.Colors != nil {
		set["colors"] = *p.Colors
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.AssetPaths != nil {
		set["asset_paths"] = *p.AssetPaths
	}

	return bson.M{"$set": set}
}
