package respond

import (
	"context"
	"strings"
)

// DefaultReply is returned by the local strategy when no category matches.
const DefaultReply = "I'm here to provide information about pregnancy. However, please remember that I'm not a substitute for professional medical advice. Always consult with your healthcare provider for personalized guidance."

// DefaultTitle is the local strategy's title when no category matches.
const DefaultTitle = "Pregnancy Question"

type category struct {
	name     string
	response string
	keywords []string
}

// categories is iterated in order and the first keyword hit wins, so a
// message touching several topics always resolves to the earliest entry.
// The same order is used for replies and titles.
var categories = []category{
	{
		name:     "Nutrition",
		response: "Proper nutrition during pregnancy is essential. Focus on a balanced diet with plenty of fruits, vegetables, whole grains, lean proteins, and healthy fats. Key nutrients include folic acid, iron, calcium, and omega-3 fatty acids. Remember, this is general advice - consult your healthcare provider for personalized nutritional guidance.",
		keywords: []string{"food", "eat", "diet", "vitamin", "mineral", "nutrition", "hungry", "appetite", "craving", "vegetarian", "vegan"},
	},
	{
		name:     "Symptoms",
		response: "Common pregnancy symptoms include morning sickness, fatigue, breast tenderness, frequent urination, and mood swings. Each pregnancy is unique, and symptoms vary widely among individuals. If you experience severe symptoms or are concerned, please consult with your healthcare provider for personalized medical advice.",
		keywords: []string{"symptom", "feel", "morning sickness", "nausea", "vomit", "tired", "fatigue", "pain", "discomfort", "swelling"},
	},
	{
		name:     "Exercise",
		response: "Moderate exercise during pregnancy is generally beneficial for most women. Activities like walking, swimming, and prenatal yoga are often recommended. Always consult with your healthcare provider before starting or continuing an exercise routine during pregnancy to ensure it's safe for your specific situation.",
		keywords: []string{"exercise", "workout", "active", "activity", "walk", "swim", "yoga", "fitness", "strength", "cardio"},
	},
	{
		name:     "Weight",
		response: "Healthy weight gain during pregnancy depends on your pre-pregnancy BMI. Generally, a gain of 25-35 pounds is recommended for those of normal weight, though this varies. Remember, this is general information - your healthcare provider should guide your specific weight management during pregnancy.",
		keywords: []string{"weight", "gain", "pound", "kilogram", "fat", "obesity", "bmi", "heavy", "scale"},
	},
	{
		name:     "Medication",
		response: "Many medications should be avoided during pregnancy as they can affect fetal development. Always consult with your healthcare provider before taking any medication, including over-the-counter drugs and supplements, to ensure they're safe during pregnancy. Never discontinue prescribed medications without medical guidance.",
		keywords: []string{"medicine", "medication", "drug", "pill", "supplement", "prescription", "painkiller", "antibiotic", "safe"},
	},
	{
		name:     "Birth",
		response: "Birth preparation involves physical, emotional, and practical considerations. Consider taking childbirth education classes, creating a birth plan, and discussing pain management options with your healthcare provider. Remember that birth plans may need to be flexible depending on how your labor progresses.",
		keywords: []string{"birth", "labor", "delivery", "contraction", "hospital", "midwife", "doula", "caesarean", "c-section", "epidural"},
	},
	{
		name:     "Trimester",
		response: "Pregnancy is divided into three trimesters, each about 13 weeks long. The first trimester (weeks 1-12) involves rapid development of embryonic structures. The second trimester (weeks 13-26) is when many women feel their best. The third trimester (weeks 27-40) involves final development and preparation for birth.",
		keywords: []string{"trimester", "week", "month", "first trimester", "second trimester", "third trimester", "development", "stage"},
	},
}

// Local is the offline rule-based strategy. It matches the most recent user
// message against a fixed keyword table and returns canned responses, so it
// works identically with no network and no credentials.
type Local struct{}

func NewLocal() *Local {
	return &Local{}
}

func (l *Local) GenerateReply(_ context.Context, history []Message) string {
	var last string
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == "user" {
			last = history[i].Content
			break
		}
	}
	if last == "" {
		return DefaultReply
	}

	if cat := matchCategory(last); cat != nil {
		return cat.response
	}
	return DefaultReply
}

func (l *Local) GenerateTitle(_ context.Context, firstMessage string) string {
	if cat := matchCategory(firstMessage); cat != nil {
		return cat.name + " Question"
	}
	return DefaultTitle
}

func matchCategory(content string) *category {
	query := strings.ToLower(content)
	for i := range categories {
		for _, kw := range categories[i].keywords {
			if strings.Contains(query, kw) {
				return &categories[i]
			}
		}
	}
	return nil
}
