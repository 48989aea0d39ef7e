package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Styling
var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#0a84ff")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#30d158")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#ff453a")).
			Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 2).
			MarginRight(1)

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type view string

const (
	viewMain      view = "main"
	viewDashboard view = "dashboard"
	viewMenu      view = "menu"
	viewOrders    view = "orders"
	viewDraft     view = "draft"
	viewReport    view = "report"
)

// Model defines the application state
type Model struct {
	mainMenu  list.Model
	menuTable table.Model
	orderList list.Model
	pickList  list.Model
	spinner   spinner.Model
	form      *form
	confirm   *confirmation
	client    *ApiClient

	menu      []MenuItem
	orders    []OrderView
	draft     Draft
	dashboard Dashboard
	degraded  []string
	insight   InsightState

	currentView view
	status      string
	error       string
}

// form collects one or more text values before running submit
type form struct {
	title  string
	inputs []textinput.Model
	focus  int
	submit func(values []string) tea.Cmd
}

// confirmation guards a destructive action behind a y/n prompt
type confirmation struct {
	prompt string
	action tea.Cmd
}

// item represents a list item
type item struct {
	title, desc string
	id          string
}

func (i item) FilterValue() string { return i.title }
func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	return l
}

// Initialize the model
func initialModel(client *ApiClient) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	items := []list.Item{
		item{title: "Tổng quan", desc: "Revenue and order status", id: string(viewDashboard)},
		item{title: "Thực đơn", desc: "Add and remove menu items", id: string(viewMenu)},
		item{title: "Đơn hàng", desc: "Track and update orders", id: string(viewOrders)},
		item{title: "Tạo đơn", desc: "Put together a new order", id: string(viewDraft)},
		item{title: "Báo cáo AI", desc: "Ask the AI assistant for a business summary", id: string(viewReport)},
		item{title: "Thoát", desc: "Exit the application", id: "exit"},
	}
	mainMenu := newList("FoodMaster", items)

	columns := []table.Column{
		{Title: "Món", Width: 30},
		{Title: "Giá", Width: 15},
	}
	menuTable := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	return Model{
		mainMenu:    mainMenu,
		menuTable:   menuTable,
		orderList:   newList("Đơn hàng", nil),
		pickList:    newList("Chọn món", nil),
		spinner:     s,
		client:      client,
		currentView: viewMain,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.EnterAltScreen)
}

// Update handles UI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.mainMenu.SetSize(msg.Width-h, msg.Height-v)
		m.orderList.SetSize(msg.Width-h, msg.Height-v-4)
		m.pickList.SetSize((msg.Width-h)/2, msg.Height-v-4)
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.confirm != nil {
			return m.updateConfirm(msg)
		}
		if m.form != nil {
			return m.updateForm(msg)
		}
		if next, cmd, handled := m.updateKeys(msg); handled {
			return next, cmd
		}
	case dashboardMsg:
		m.dashboard = msg.dashboard
		m.degraded = msg.degraded
		return m, nil
	case menuMsg:
		m.menu = msg.items
		m.menuTable.SetRows(menuRows(msg.items))
		return m, m.pickList.SetItems(menuListItems(msg.items))
	case ordersMsg:
		m.orders = msg.orders
		return m, m.orderList.SetItems(orderListItems(msg.orders))
	case draftMsg:
		m.draft = msg.draft
		return m, nil
	case insightMsg:
		m.insight = msg.state
		if msg.state.Status == "requesting" {
			return m, pollInsights()
		}
		return m, nil
	case pollMsg:
		return m, fetchInsights(m.client)
	case errorMsg:
		m.error = msg.err
		m.status = ""
		return m, nil
	case confirmMsg:
		m.error = ""
		m.status = msg.message
		return m, m.load(m.currentView)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.currentView {
	case viewMain:
		m.mainMenu, cmd = m.mainMenu.Update(msg)
	case viewMenu:
		m.menuTable, cmd = m.menuTable.Update(msg)
	case viewOrders:
		m.orderList, cmd = m.orderList.Update(msg)
	case viewDraft:
		m.pickList, cmd = m.pickList.Update(msg)
	}

	return m, cmd
}

// updateKeys handles the shortcuts of the current view. Keys it does not
// handle are passed on to the focused component.
func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	key := msg.String()

	if m.currentView == viewMain {
		switch key {
		case "q":
			return m, tea.Quit, true
		case "enter":
			selected, ok := m.mainMenu.SelectedItem().(item)
			if !ok {
				return m, nil, true
			}
			if selected.id == "exit" {
				return m, tea.Quit, true
			}
			m.currentView = view(selected.id)
			m.status, m.error = "", ""
			return m, m.load(m.currentView), true
		}
		return m, nil, false
	}

	if key == "esc" {
		m.currentView = viewMain
		m.status, m.error = "", ""
		return m, nil, true
	}

	switch m.currentView {
	case viewMenu:
		switch key {
		case "n":
			m.form = newMenuItemForm(m.client)
			return m, textinput.Blink, true
		case "d":
			cursor := m.menuTable.Cursor()
			if cursor < 0 || cursor >= len(m.menu) {
				return m, nil, true
			}
			target := m.menu[cursor]
			m.confirm = &confirmation{
				prompt: fmt.Sprintf("Xóa món %q? Các dòng đơn hàng chứa món này cũng sẽ bị xóa.", target.Name),
				action: deleteMenuItem(m.client, target.ID),
			}
			return m, nil, true
		}
	case viewOrders:
		selected, ok := m.orderList.SelectedItem().(item)
		switch key {
		case "t":
			if ok {
				return m, toggleOrder(m.client, selected.id), true
			}
			return m, nil, true
		case "d":
			if ok {
				m.confirm = &confirmation{
					prompt: fmt.Sprintf("Bạn có chắc chắn muốn xóa đơn hàng của %s?", selected.title),
					action: deleteOrder(m.client, selected.id),
				}
			}
			return m, nil, true
		}
	case viewDraft:
		selected, ok := m.pickList.SelectedItem().(item)
		switch key {
		case "enter", "+":
			if ok {
				return m, addToDraft(m.client, selected.id), true
			}
			return m, nil, true
		case "x", "-":
			if !ok {
				return m, nil, true
			}
			for i, line := range m.draft.Items {
				if line.FoodID == selected.id {
					return m, removeDraftLine(m.client, i), true
				}
			}
			return m, nil, true
		case "s":
			if len(m.draft.Items) == 0 {
				m.error = "Chưa có món nào trong đơn"
				return m, nil, true
			}
			m.form = newSubmitForm(m.client)
			return m, textinput.Blink, true
		}
	case viewReport:
		if key == "r" && m.insight.Status != "requesting" {
			m.insight.Status = "requesting"
			return m, requestInsights(m.client), true
		}
	}

	return m, nil, false
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.confirm.action
	m.confirm = nil
	if msg.String() == "y" || msg.String() == "Y" {
		return m, action
	}
	m.status = "Đã hủy"
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := *m.form
	f.inputs = append([]textinput.Model(nil), m.form.inputs...)

	switch msg.String() {
	case "esc":
		m.form = nil
		return m, nil
	case "tab", "down":
		f.focusOn((f.focus + 1) % len(f.inputs))
		m.form = &f
		return m, nil
	case "shift+tab", "up":
		f.focusOn((f.focus + len(f.inputs) - 1) % len(f.inputs))
		m.form = &f
		return m, nil
	case "enter":
		if f.focus < len(f.inputs)-1 {
			f.focusOn(f.focus + 1)
			m.form = &f
			return m, nil
		}
		values := make([]string, len(f.inputs))
		for i, in := range f.inputs {
			values[i] = strings.TrimSpace(in.Value())
		}
		m.form = nil
		return m, f.submit(values)
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	m.form = &f
	return m, cmd
}

func (f *form) focusOn(i int) {
	f.inputs[f.focus].Blur()
	f.focus = i
	f.inputs[f.focus].Focus()
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 156
	ti.Width = 30
	return ti
}

func newMenuItemForm(client *ApiClient) *form {
	name := newInput("Tên món")
	name.Focus()
	price := newInput("Giá (VND)")

	return &form{
		title:  "Thêm món mới",
		inputs: []textinput.Model{name, price},
		submit: func(values []string) tea.Cmd {
			return createMenuItem(client, values[0], values[1])
		},
	}
}

func newSubmitForm(client *ApiClient) *form {
	customer := newInput("Tên khách hàng")
	customer.Focus()

	return &form{
		title:  "Tạo đơn hàng",
		inputs: []textinput.Model{customer},
		submit: func(values []string) tea.Cmd {
			return submitDraft(client, values[0])
		},
	}
}

// load fetches what view v displays
func (m Model) load(v view) tea.Cmd {
	switch v {
	case viewDashboard:
		return fetchDashboard(m.client)
	case viewMenu:
		return fetchMenu(m.client)
	case viewOrders:
		return fetchOrders(m.client)
	case viewDraft:
		return tea.Batch(fetchMenu(m.client), fetchDraft(m.client))
	case viewReport:
		return tea.Batch(fetchDashboard(m.client), fetchInsights(m.client))
	}
	return nil
}

// View renders the UI
func (m Model) View() string {
	var body string
	switch m.currentView {
	case viewMain:
		return docStyle.Render(m.mainMenu.View())
	case viewDashboard:
		body = titleStyle.Render("Tổng quan") + "\n\n" + dashboardView(m.dashboard, m.degraded)
		body += helpStyle.Render("\nesc: quay lại")
	case viewMenu:
		body = titleStyle.Render("Thực đơn") + "\n\n" + m.menuTable.View()
		body += helpStyle.Render("\nn: thêm món • d: xóa món • esc: quay lại")
	case viewOrders:
		body = m.orderList.View()
		body += helpStyle.Render("\nt: đổi trạng thái • d: xóa đơn • esc: quay lại")
	case viewDraft:
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.pickList.View(), draftView(m.draft))
		body += helpStyle.Render("\nenter/+: thêm món • x/-: bỏ món • s: tạo đơn • esc: quay lại")
	case viewReport:
		body = titleStyle.Render("Báo cáo AI") + "\n\n" + m.reportView()
		body += helpStyle.Render("\nr: tạo báo cáo • esc: quay lại")
	default:
		return "Loading..."
	}

	if m.form != nil {
		body += "\n\n" + formView(m.form)
	}
	if m.confirm != nil {
		body += "\n\n" + infoStyle.Render(m.confirm.prompt+" (y/n)")
	}
	if m.error != "" {
		body += "\n" + errorStyle.Render(m.error)
	} else if m.status != "" {
		body += "\n" + successStyle.Render(m.status)
	}

	return docStyle.Render(body)
}

func dashboardView(d Dashboard, degraded []string) string {
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		cardStyle.Render("Doanh thu\n"+d.RevenueText),
		cardStyle.Render(fmt.Sprintf("Đang xử lý\n%d", d.Pending)),
		cardStyle.Render(fmt.Sprintf("Đã giao\n%d", d.Completed)),
		cardStyle.Render(fmt.Sprintf("Thực đơn\n%d món", d.MenuItems)),
	)
	if len(degraded) > 0 {
		cards += "\n" + errorStyle.Render("Dữ liệu bị lỗi đã được đặt lại: "+strings.Join(degraded, ", "))
	}
	return cards + "\n"
}

func draftView(d Draft) string {
	view := titleStyle.Render("Đơn đang tạo") + "\n\n"
	if len(d.Items) == 0 {
		view += "Chưa có món nào\n"
	}
	for i, line := range d.Items {
		view += fmt.Sprintf("%d. %dx %s\n", i+1, line.Quantity, line.Label)
	}
	view += fmt.Sprintf("\nTổng: %s\n", d.TotalText)
	return lipgloss.NewStyle().PaddingLeft(2).Render(view)
}

func (m Model) reportView() string {
	switch m.insight.Status {
	case "requesting":
		return m.spinner.View() + " Đang phân tích dữ liệu...\n"
	case "succeeded":
		return m.insight.Report + "\n"
	case "failed":
		return errorStyle.Render(m.insight.Report) + "\n"
	case "unavailable":
		return "Chưa có đơn hàng để phân tích.\n"
	}
	if m.dashboard.Orders == 0 {
		return "Chưa có đơn hàng để phân tích.\n"
	}
	return fmt.Sprintf("%d đơn hàng sẵn sàng để phân tích.\n", m.dashboard.Orders)
}

func formView(f *form) string {
	view := infoStyle.Render(f.title) + "\n"
	for _, in := range f.inputs {
		view += in.View() + "\n"
	}
	return view + helpStyle.Render("tab: chuyển ô • enter: xác nhận • esc: hủy")
}

func menuRows(items []MenuItem) []table.Row {
	rows := make([]table.Row, len(items))
	for i, it := range items {
		rows[i] = table.Row{it.Name, formatMoney(it.Price)}
	}
	return rows
}

func menuListItems(items []MenuItem) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = item{id: it.ID, title: it.Name, desc: formatMoney(it.Price)}
	}
	return out
}

func orderListItems(orders []OrderView) []list.Item {
	out := make([]list.Item, len(orders))
	for i, o := range orders {
		lines := make([]string, len(o.Items))
		for j, line := range o.Items {
			lines[j] = fmt.Sprintf("%dx %s", line.Quantity, line.Label)
		}
		out[i] = item{
			id:    o.ID,
			title: fmt.Sprintf("%s · %s", o.CustomerName, o.TotalText),
			desc:  fmt.Sprintf("%s · %s · %s", strings.Join(lines, ", "), o.StatusLabel, o.Date.Local().Format("02/01 15:04")),
		}
	}
	return out
}

var moneyPrinter = message.NewPrinter(language.Vietnamese)

// formatMoney renders đồng with vi-VN grouping: 50000 -> "50.000 đ"
func formatMoney(amount float64) string {
	return moneyPrinter.Sprintf("%d đ", int64(math.Round(amount)))
}

// Custom message types for the tea.Model
type dashboardMsg struct {
	dashboard Dashboard
	degraded  []string
}

type menuMsg struct {
	items []MenuItem
}

type ordersMsg struct {
	orders []OrderView
}

type draftMsg struct {
	draft Draft
}

type insightMsg struct {
	state InsightState
}

type pollMsg struct{}

type errorMsg struct {
	err string
}

type confirmMsg struct {
	message string
}

func fetchDashboard(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		d, degraded, err := client.GetDashboard()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching dashboard: %v", err)}
		}
		return dashboardMsg{dashboard: *d, degraded: degraded}
	}
}

func fetchMenu(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		items, err := client.GetMenu()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching menu: %v", err)}
		}
		return menuMsg{items: items}
	}
}

func createMenuItem(client *ApiClient, name, price string) tea.Cmd {
	return func() tea.Msg {
		value, err := strconv.ParseFloat(strings.ReplaceAll(price, ".", ""), 64)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Giá không hợp lệ: %q", price)}
		}
		item, err := client.CreateMenuItem(name, value)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error creating menu item: %v", err)}
		}
		return confirmMsg{message: fmt.Sprintf("Đã thêm %s", item.Name)}
	}
}

func deleteMenuItem(client *ApiClient, id string) tea.Cmd {
	return func() tea.Msg {
		if err := client.DeleteMenuItem(id); err != nil {
			return errorMsg{err: fmt.Sprintf("Error deleting menu item: %v", err)}
		}
		return confirmMsg{message: "Đã xóa món"}
	}
}

func fetchOrders(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		orders, err := client.GetOrders()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching orders: %v", err)}
		}
		return ordersMsg{orders: orders}
	}
}

func toggleOrder(client *ApiClient, id string) tea.Cmd {
	return func() tea.Msg {
		order, err := client.ToggleOrder(id)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error updating order: %v", err)}
		}
		status := "Đang xử lý"
		if order.IsDelivered {
			status = "Đã giao"
		}
		return confirmMsg{message: fmt.Sprintf("Đơn của %s: %s", order.CustomerName, status)}
	}
}

func deleteOrder(client *ApiClient, id string) tea.Cmd {
	return func() tea.Msg {
		if err := client.DeleteOrder(id); err != nil {
			return errorMsg{err: fmt.Sprintf("Error deleting order: %v", err)}
		}
		return confirmMsg{message: "Đã xóa đơn hàng"}
	}
}

func fetchDraft(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		draft, err := client.GetDraft()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching draft: %v", err)}
		}
		return draftMsg{draft: *draft}
	}
}

func addToDraft(client *ApiClient, foodID string) tea.Cmd {
	return func() tea.Msg {
		draft, err := client.AddToDraft(foodID, 1)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error updating draft: %v", err)}
		}
		return draftMsg{draft: *draft}
	}
}

func removeDraftLine(client *ApiClient, index int) tea.Cmd {
	return func() tea.Msg {
		draft, err := client.RemoveDraftLine(index)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error updating draft: %v", err)}
		}
		return draftMsg{draft: *draft}
	}
}

func submitDraft(client *ApiClient, customerName string) tea.Cmd {
	return func() tea.Msg {
		order, err := client.SubmitDraft(customerName)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error creating order: %v", err)}
		}
		return confirmMsg{message: fmt.Sprintf("Đã tạo đơn cho %s", order.CustomerName)}
	}
}

func fetchInsights(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		state, err := client.GetInsights()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching report: %v", err)}
		}
		return insightMsg{state: *state}
	}
}

func requestInsights(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		state, err := client.RequestInsights()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error requesting report: %v", err)}
		}
		return insightMsg{state: *state}
	}
}

// pollInsights checks the report again after a second
func pollInsights() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return pollMsg{}
	})
}

func main() {
	client := NewApiClient()
	if _, err := client.CheckHealth(); err != nil {
		fmt.Printf("Warning: API server at %s is not available: %v\n", client.BaseURL, err)
	}

	p := tea.NewProgram(initialModel(client))
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v", err)
		os.Exit(1)
	}
}
