// ABOUTME: Template-based assistant replies keyed on the topic of a question.
// ABOUTME: Replies interpolate the user's own metrics and insight counts.
package insight

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/harperreed/healthai/internal/models"
)

// Topic is the subject a question is classified into.
type Topic string

const (
	TopicSleep   Topic = "sleep"
	TopicHeart   Topic = "heart"
	TopicSteps   Topic = "steps"
	TopicWeight  Topic = "weight"
	TopicGeneral Topic = "general"
)

// topicKeywords is checked in order; the first topic with a matching substring wins.
var topicKeywords = []struct {
	topic    Topic
	keywords []string
}{
	{TopicSleep, []string{"sleep"}},
	{TopicHeart, []string{"heart", "pulse"}},
	{TopicSteps, []string{"steps", "activity", "walk"}},
	{TopicWeight, []string{"weight", "bmi"}},
}

// Classify maps a free-text question to a Topic.
func Classify(query string) Topic {
	q := strings.ToLower(query)
	for _, tk := range topicKeywords {
		for _, kw := range tk.keywords {
			if strings.Contains(q, kw) {
				return tk.topic
			}
		}
	}
	return TopicGeneral
}

// Respond builds the assistant reply for query from the user's data.
func Respond(query string, metrics []models.HealthMetric, insights []models.HealthInsight) string {
	switch Classify(query) {
	case TopicSleep:
		return sleepResponse(metrics)
	case TopicHeart:
		return heartResponse(metrics)
	case TopicSteps:
		return stepsResponse(metrics)
	case TopicWeight:
		return weightResponse(metrics)
	default:
		return generalResponse(metrics, insights)
	}
}

func ofType(metrics []models.HealthMetric, t models.MetricType) []models.HealthMetric {
	var out []models.HealthMetric
	for _, m := range metrics {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

func sleepResponse(metrics []models.HealthMetric) string {
	sleep := ofType(metrics, models.MetricSleep)
	if len(sleep) == 0 {
		return "I notice you haven't recorded any sleep data yet. Sleep tracking is crucial for understanding your overall health patterns. Try connecting your sleep tracker or manually logging your sleep hours."
	}

	var sum float64
	for _, m := range sleep {
		sum += m.Value
	}
	avg := sum / float64(len(sleep))

	if avg >= 7 {
		return fmt.Sprintf("Excellent! Your average sleep duration is %.1f hours, which is within the optimal range. This likely contributes to better heart rate variability and overall recovery. Keep maintaining this consistent sleep schedule.", avg)
	}
	return fmt.Sprintf("Your average sleep duration is %.1f hours, which is below the recommended 7-9 hours. Based on health research, improving your sleep could enhance your heart rate variability by 10-15%% and boost your daily energy levels.", avg)
}

func heartResponse(metrics []models.HealthMetric) string {
	heart := ofType(metrics, models.MetricHeartRate)
	if len(heart) == 0 {
		return "I don't see any heart rate data yet. Heart rate monitoring provides valuable insights into your cardiovascular health, stress levels, and recovery patterns. Consider connecting a heart rate monitor or fitness tracker."
	}

	latest := heart[len(heart)-1].Value
	bpm := strconv.FormatFloat(latest, 'f', -1, 64)

	switch {
	case latest >= 60 && latest <= 80:
		return fmt.Sprintf("Your recent resting heart rate of %s BPM is excellent and indicates good cardiovascular fitness. This is within the optimal range for most adults. Your heart efficiency suggests you're maintaining good overall health.", bpm)
	case latest > 80:
		return fmt.Sprintf("Your recent heart rate of %s BPM is slightly elevated. This could indicate stress, caffeine intake, or the need for better recovery. Consider monitoring your sleep quality and stress levels. If consistently high, consult a healthcare provider.", bpm)
	default:
		return fmt.Sprintf("Your resting heart rate of %s BPM is quite low, which often indicates excellent cardiovascular fitness, especially if you're an athlete. However, if you're not very active, this might be worth discussing with a healthcare provider.", bpm)
	}
}

func stepsResponse(metrics []models.HealthMetric) string {
	steps := ofType(metrics, models.MetricSteps)
	if len(steps) == 0 {
		return "I don't see any activity data yet. Daily step tracking is a great way to monitor your activity levels and overall health. The general recommendation is 8,000-10,000 steps per day for optimal health benefits."
	}

	latest := steps[len(steps)-1].Value
	count := humanize.Commaf(latest)

	switch {
	case latest >= 10000:
		return fmt.Sprintf("Outstanding! You've achieved %s steps, which exceeds the recommended daily target. This level of activity supports cardiovascular health, mental well-being, and weight management. Keep up the excellent work!", count)
	case latest >= 7000:
		return fmt.Sprintf("Good progress with %s steps! You're close to the optimal range. Adding a 10-15 minute walk could easily get you to 10,000 steps and provide additional health benefits.", count)
	default:
		return fmt.Sprintf("You've logged %s steps today. While any movement is beneficial, aiming for 8,000-10,000 steps daily can significantly improve your cardiovascular health and energy levels. Consider taking short walks throughout the day.", count)
	}
}

func weightResponse(metrics []models.HealthMetric) string {
	if len(ofType(metrics, models.MetricWeight)) == 0 {
		return "Weight tracking can provide valuable insights into your health trends over time. Regular monitoring helps you understand how your diet, exercise, and lifestyle choices affect your body composition."
	}
	return "Based on your weight data, I can help you track trends and correlations with your activity levels and other health metrics. Consistent tracking helps identify patterns and supports your health goals."
}

func generalResponse(metrics []models.HealthMetric, insights []models.HealthInsight) string {
	if len(metrics) == 0 {
		return "Welcome to your AI health assistant! I'm here to help analyze your health data and provide personalized insights. Start by connecting your health devices or manually logging some metrics like sleep, activity, or heart rate."
	}
	return fmt.Sprintf("I've analyzed your %d health data points and generated %d personalized insights. Your overall health profile shows good engagement with tracking. Would you like me to focus on any specific area like sleep optimization, activity patterns, or heart health?", len(metrics), len(insights))
}
