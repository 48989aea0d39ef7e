package insights

import (
	"fmt"
	"strings"

	"foodmaster/internal/models"
	"foodmaster/internal/stats"
)

const (
	deliveredText   = "Đã giao"
	undeliveredText = "Chưa giao"
)

const summaryTemplate = `
Dựa trên danh sách đơn hàng sau đây (mỗi đơn có thể gồm nhiều món), hãy viết một báo cáo tóm tắt kinh doanh ngắn gọn (khoảng 150 từ) bằng tiếng Việt.
Bao gồm:
1. Tổng số đơn hàng và đánh giá hiệu suất (số đơn hoàn thành vs chờ).
2. Các món ăn/xu hướng đang được ưa chuộng dựa trên số lượng.
3. Một lời khuyên chiến lược để tăng giá trị trung bình trên mỗi đơn hàng.

Danh sách chi tiết:
%s
`

// SummaryLine renders one order as "customer | quantity×item, ... | status"
func SummaryLine(order models.Order, menu stats.Lookup) string {
	items := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, fmt.Sprintf("%dx %s", item.Quantity, stats.DisplayLabel(item.FoodID, menu)))
	}

	status := undeliveredText
	if order.IsDelivered {
		status = deliveredText
	}

	return fmt.Sprintf("- Khách: %s | Món: %s | Trạng thái: %s", order.CustomerName, strings.Join(items, ", "), status)
}

// BuildSummaryPrompt wraps one summary line per order in the report
// instructions sent to the model.
func BuildSummaryPrompt(orders []models.Order, menu []models.MenuItem) string {
	ix := stats.NewIndex(menu)

	lines := make([]string, 0, len(orders))
	for _, order := range orders {
		lines = append(lines, SummaryLine(order, ix))
	}

	return fmt.Sprintf(summaryTemplate, strings.Join(lines, "\n"))
}
