package utils

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ExtractString safely extracts a string from a DynamoDB attribute map
func ExtractString(item map[string]types.AttributeValue, field string) string {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberS); ok {
			return v.Value
		}
	}
	return ""
}

// ExtractStringList safely extracts a list of strings from a DynamoDB
// attribute map
func ExtractStringList(item map[string]types.AttributeValue, field string) []string {
	values := []string{}
	if attr, ok := item[field]; ok {
		if list, ok := attr.(*types.AttributeValueMemberL); ok {
			for _, entry := range list.Value {
				if v, ok := entry.(*types.AttributeValueMemberS); ok {
					values = append(values, v.Value)
				}
			}
		}
	}
	return values
}

// ExtractFirstPhoto extracts the first photo URL from a photos attribute
func ExtractFirstPhoto(item map[string]types.AttributeValue, field string) string {
	photos := ExtractStringList(item, field)
	if len(photos) > 0 {
		return photos[0]
	}
	return ""
}
