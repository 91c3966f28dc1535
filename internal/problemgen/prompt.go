package problemgen

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/mathsheet/internal/worksheet"
)

var gradeNames = []string{"", "一", "二", "三", "四", "五", "六"}

var categoryNames = map[worksheet.Category]string{
	worksheet.Mental:      "口算题",
	worksheet.Vertical:    "竖式计算",
	worksheet.Mixed:       "脱式计算",
	worksheet.FillInBlank: "填空题",
	worksheet.Compare:     "比大小",
	worksheet.Word:        "应用题",
}

func gradeName(grade int) string {
	if grade < 1 || grade >= len(gradeNames) {
		grade = 3
	}
	return gradeNames[grade]
}

// buildSystemPrompt describes the output contract and content rules.
func buildSystemPrompt(grade int, avoid []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "你是一位中国小学%s年级数学老师。请根据用户的要求生成一套数学练习题。\n\n", gradeName(grade))
	b.WriteString("输出格式要求：\n")
	b.WriteString("1. 必须且只能返回标准的 JSON 对象。\n")
	b.WriteString("2. JSON 对象必须包含以下字段，某类题目数量为 0 时返回空数组 []：\n")
	b.WriteString(`   - "mentalQuestions": 字符串数组，口算题 (格式: "A + B =")` + "\n")
	b.WriteString(`   - "verticalQuestions": 字符串数组，竖式计算题 (格式: "A × B")` + "\n")
	b.WriteString(`   - "mixedQuestions": 字符串数组，脱式计算题 (格式: "A + B × C")` + "\n")
	b.WriteString(`   - "fillInBlankQuestions": 字符串数组，填空题 (例如: "1米 = ( )分米")` + "\n")
	b.WriteString(`   - "compareQuestions": 字符串数组，比大小 (例如: "50 + 20 ( ) 80")` + "\n")
	b.WriteString(`   - "wordQuestions": 字符串数组，应用题 (中文描述)` + "\n\n")

	b.WriteString("内容要求：\n")
	b.WriteString("1. 所有题目必须使用简体中文。\n")
	b.WriteString("2. 除法符号必须使用 '÷'，禁止使用 '/'。\n")
	b.WriteString("3. 乘法符号必须使用 '×'，禁止使用 '*'。\n")
	fmt.Fprintf(&b, "4. 难度必须严格符合中国小学%s年级标准，计算结果不能为负数。\n", gradeName(grade))
	b.WriteString("5. 绝对不要生成重复的题目。")

	if len(avoid) > 0 {
		encoded, _ := json.Marshal(avoid)
		fmt.Fprintf(&b, "\n\n禁止生成的题目（已存在）: %s", encoded)
	}
	return b.String()
}

// buildUserMessage lists the requested count per category and the topic.
func buildUserMessage(s worksheet.Settings) string {
	var b strings.Builder
	b.WriteString("请生成一套试卷，包含以下题目：\n")
	for i, c := range worksheet.Categories() {
		fmt.Fprintf(&b, "%d. %s (%s): %d 道\n", i+1, categoryNames[c], c.ResponseKey(), s.Counts.For(c))
	}
	fmt.Fprintf(&b, "\n当前侧重的主题/知识点: %s", s.Topic)
	return b.String()
}

// recentAvoid keeps the newest limit entries of avoid.
func recentAvoid(avoid []string, limit int) []string {
	if limit > 0 && len(avoid) > limit {
		return avoid[len(avoid)-limit:]
	}
	return avoid
}
