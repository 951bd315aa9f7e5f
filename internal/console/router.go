// internal/console/router.go
//
// 本檔負責主選單的註冊與分派。
// 與 handler.go 分離：
//   - handler.go 定義「每個選項如何處理」
//   - router.go 定義「輸入如何被導向」
//
// 每個選項可用數字或英文單字選取，例如 "3" 與 "deposit" 等價。
package console

import "strings"

type menuItem struct {
	key      string
	word     string
	title    string
	progress string
	handle   func() error // nil 代表離開
}

func (c *Console) menu() []menuItem {
	return []menuItem{
		{key: "1", word: "create", title: "Create Account", progress: "Creating account", handle: c.createAccount},
		{key: "2", word: "delete", title: "Delete Account", progress: "Deleting account", handle: c.deleteAccount},
		{key: "3", word: "deposit", title: "Deposit", progress: "Depositing", handle: c.deposit},
		{key: "4", word: "withdraw", title: "Withdraw", progress: "Withdrawing", handle: c.withdraw},
		{key: "5", word: "remittance", title: "Remittance", progress: "Remitting funds", handle: c.remittance},
		{key: "6", word: "exit", title: "Exit"},
	}
}

func (c *Console) showMenu() {
	items := c.menu()
	c.Notice("----------------------------------")
	c.Notice("Please choose the following (1-%d):", len(items))
	for _, it := range items {
		c.Notice("%s. %s", it.key, it.title)
	}
}

func (c *Console) route(choice string) (menuItem, bool) {
	choice = strings.ToLower(strings.TrimSpace(choice))
	for _, it := range c.menu() {
		if choice == it.key || choice == it.word {
			return it, true
		}
	}
	return menuItem{}, false
}
