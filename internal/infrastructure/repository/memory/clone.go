package memory

import "time"

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}

func cloneIntPtr(value *int) *int {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}

func cloneFloat64Ptr(value *float64) *float64 {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}

func cloneTimePtr(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	v := value.UTC()
	return &v
}

func cloneDocument(doc map[string]any) map[string]any {
	if doc == nil {
		return nil
	}
	copied := make(map[string]any, len(doc))
	for key, value := range doc {
		copied[key] = value
	}
	return copied
}
