package assistant

import (
	"fmt"
	"strings"

	"github.com/adanyl0v/todo-assistant/internal/models"
	"github.com/adanyl0v/todo-assistant/internal/query"
)

// The order of this table is part of the behaviour: "completed" must not be
// read as a status question and "hi" wins over everything below it.
func defaultRules() []rule {
	return []rule{
		{name: "greeting", keywords: []string{"hello", "hi", "hey"}, respond: respondGreeting},
		{name: "help", keywords: []string{"help", "what can you do", "commands"}, respond: respondHelp},
		{name: "status", keywords: []string{"status", "how am i doing", "progress", "summary"}, respond: respondStatus},
		{name: "focus", keywords: []string{"focus", "what should i work on", "next task", "prioritize"}, respond: respondFocus},
		{name: "tips", keywords: []string{"tips", "productivity", "advice"}, respond: respondTips},
		{name: "motivation", keywords: []string{"motivation", "encourage", "struggling"}, respond: respondMotivation},
		{name: "organize", keywords: []string{"organize", "categories", "structure"}, respond: respondOrganize},
		{name: "celebrate", keywords: []string{"done", "finished", "completed", "celebrate"}, respond: respondCelebrate},
		{name: "time", keywords: []string{"time", "deadline", "schedule"}, respond: respondTime},
		{name: "overwhelm", keywords: []string{"overwhelmed", "too much", "stressed"}, respond: respondOverwhelm},
		{name: "fun", keywords: []string{"boring", "fun", "game"}, respond: respondFun},
	}
}

func respondGreeting(_ *Responder, c *chatContext) string {
	greeting := "Good evening!"
	switch hour := c.now.Hour(); {
	case hour < 12:
		greeting = "Good morning!"
	case hour < 17:
		greeting = "Good afternoon!"
	}

	if c.stats.Total == 0 {
		return greeting + " 👋 I'm your smart todo assistant! Ready to help you get organized? " +
			"Start by adding your first task!"
	}

	overdue := ""
	if c.stats.Overdue > 0 {
		overdue = fmt.Sprintf(" (%d overdue)", c.stats.Overdue)
	}
	return fmt.Sprintf("%s 👋 You currently have %d active tasks%s. How can I help you stay productive today?",
		greeting, c.stats.Active, overdue)
}

const helpText = `🤖 I'm your intelligent todo assistant! Here's what I can help with:

📊 **Analysis**: Ask about your progress, overdue tasks, or productivity patterns
⚡ **Suggestions**: Get smart recommendations for task prioritization
💡 **Tips**: Productivity advice tailored to your current workload
🎯 **Focus**: Help you identify what to work on next
📈 **Motivation**: Celebrate achievements and provide encouragement

Try asking: "What should I focus on?" or "How am I doing?"`

func respondHelp(_ *Responder, _ *chatContext) string {
	return helpText
}

func respondStatus(_ *Responder, c *chatContext) string {
	s := c.stats
	if s.Total == 0 {
		return "📊 You have a clean slate! No todos yet. This is a great time to plan your day or week. " +
			"What would you like to accomplish?"
	}

	var b strings.Builder
	b.WriteString("📊 **Your Todo Status:**\n\n")
	fmt.Fprintf(&b, "• Total tasks: %d\n", s.Total)
	fmt.Fprintf(&b, "• Completed: %d (%d%%)\n", s.Completed, s.PercentCompleted())
	fmt.Fprintf(&b, "• Active: %d\n", s.Active)
	if s.Overdue > 0 {
		fmt.Fprintf(&b, "• ⚠️ Overdue: %d\n", s.Overdue)
	}
	if s.DueSoon > 0 {
		fmt.Fprintf(&b, "• ⏰ Due soon: %d\n", s.DueSoon)
	}
	if s.HighPriority > 0 {
		fmt.Fprintf(&b, "• 🔴 High priority: %d\n", s.HighPriority)
	}

	switch {
	case s.Completed > s.Active:
		b.WriteString("\n🎉 Great job! You're crushing it with more completed than active tasks!")
	case s.Overdue == 0:
		b.WriteString("\n✨ Excellent! No overdue tasks - you're staying on top of things!")
	case s.Overdue > 3:
		b.WriteString("\n🚨 You have quite a few overdue tasks. " +
			"Consider reviewing deadlines or breaking large tasks into smaller ones.")
	}
	return b.String()
}

func respondFocus(_ *Responder, c *chatContext) string {
	s := c.stats
	if s.Active == 0 {
		return "🎯 All caught up! No active tasks right now. Perfect time to:\n" +
			"• Plan upcoming projects\n" +
			"• Set new goals\n" +
			"• Take a well-deserved break\n" +
			"• Review and celebrate your achievements!"
	}

	var b strings.Builder
	b.WriteString("🎯 **Here's what I recommend focusing on:**\n\n")

	if s.Overdue > 0 {
		t, _ := c.firstActive(func(t models.Task) bool { return query.IsOverdue(t, c.now) })
		b.WriteString("🚨 **URGENT**: Handle overdue tasks first!\n")
		fmt.Fprintf(&b, "Start with: \"%s\" (%s)\n\n", t.Text, t.Category)
	}

	if s.DueSoon > 0 && s.Overdue == 0 {
		t, _ := c.firstActive(func(t models.Task) bool { return query.IsDueSoon(t, c.now) })
		b.WriteString("⏰ **TIME-SENSITIVE**: Due soon tasks\n")
		fmt.Fprintf(&b, "Focus on: \"%s\" (due %s)\n\n", t.Text, t.DueDate)
	}

	if s.HighPriority > 0 && s.Overdue == 0 {
		t, _ := c.firstActive(func(t models.Task) bool { return t.Priority == models.PriorityHigh })
		fmt.Fprintf(&b, "🔴 **HIGH IMPACT**: \"%s\"\n", t.Text)
		fmt.Fprintf(&b, "Category: %s\n\n", t.Category)
	}

	if s.Overdue == 0 && s.DueSoon == 0 {
		b.WriteString("💡 **Tip**: Start with high-priority tasks or tackle quick wins to build momentum!")
	}
	return b.String()
}

var generalTips = []string{
	"🍅 **Pomodoro Technique**: Work in 25-minute focused bursts with 5-minute breaks",
	"🎯 **2-Minute Rule**: If it takes less than 2 minutes, do it immediately",
	"📅 **Time Blocking**: Schedule specific times for different types of tasks",
	"🔄 **Weekly Review**: Spend 15 minutes each week reviewing and planning",
	"🏆 **Celebrate Wins**: Acknowledge completed tasks - even small ones!",
}

func respondTips(r *Responder, c *chatContext) string {
	s := c.stats
	tips := []string{"💡 **Smart Productivity Tips:**\n\n"}
	if s.Overdue > 2 {
		tips = append(tips, "🚨 **For Overdue Tasks**: Break them into smaller, 15-minute chunks. "+
			"Often we avoid tasks because they feel overwhelming.")
	}
	if s.HighPriority > 5 {
		tips = append(tips, "⚡ **Priority Management**: You have many high-priority tasks. "+
			"Consider if they're all truly urgent - use the Eisenhower Matrix!")
	}
	if s.Total > 20 {
		tips = append(tips, `📝 **Task Overload**: You have many tasks! `+
			`Try the "Rule of 3" - focus on just 3 important tasks per day.`)
	}
	tips = append(tips, r.pick(generalTips))
	return strings.Join(tips, "\n")
}

var motivations = []string{
	"💪 You've got this! Remember, progress isn't about perfection - it's about consistency.",
	"🌟 Every completed task is a step forward. You're building momentum one todo at a time!",
	"🎯 Focus on progress, not perfection. You're doing better than you think!",
	"⭐ Great things are built one task at a time. Keep going - you're making it happen!",
	"🚀 You're not behind - you're exactly where you need to be. Keep moving forward!",
}

func respondMotivation(r *Responder, c *chatContext) string {
	response := r.pick(motivations)
	if c.stats.Completed > 0 {
		response += fmt.Sprintf("\n\n🏆 You've already completed %d tasks - that's proof you can do this!",
			c.stats.Completed)
	}
	return response
}

const organizeText = `📂 **Smart Organization Tips:**

🏢 **Work**: Professional tasks, meetings, deadlines
👤 **Personal**: Self-care, hobbies, personal goals
🛒 **Shopping**: Groceries, household items, purchases
🏥 **Health**: Exercise, appointments, wellness activities
📌 **Other**: Miscellaneous tasks that don't fit elsewhere

💡 **Pro tip**: Use the priority levels within each category - not everything needs to be high priority!`

func respondOrganize(_ *Responder, _ *chatContext) string {
	return organizeText
}

func respondCelebrate(_ *Responder, c *chatContext) string {
	s := c.stats
	switch {
	case s.Completed == 0:
		return "🎯 Ready to tackle your first task? I'm here to cheer you on! " +
			"Every journey starts with a single step."
	case s.Completed*5 >= s.Total*4:
		return fmt.Sprintf("🎉 **AMAZING!** You've completed %d%% of your tasks! You're absolutely crushing it! 🏆",
			s.PercentCompleted())
	default:
		return fmt.Sprintf("🎊 Fantastic work! %d tasks completed! Each one brings you closer to your goals. "+
			"Keep that momentum going! 💪", s.Completed)
	}
}

func respondTime(_ *Responder, c *chatContext) string {
	s := c.stats
	switch {
	case s.DueSoon > 0:
		return fmt.Sprintf("⏰ **Time Management Alert**: You have %d tasks due soon. "+
			"Consider time-blocking your calendar to ensure you have dedicated time for these important tasks!",
			s.DueSoon)
	case s.Overdue > 0:
		return fmt.Sprintf("🚨 **Deadline Recovery**: %d tasks are overdue. "+
			`Try the "Debt Snowball" method - tackle the smallest overdue task first to build momentum!`,
			s.Overdue)
	default:
		return "✅ **Great Timing!** No urgent deadlines right now. " +
			"Perfect opportunity to work ahead or tackle those important-but-not-urgent tasks!"
	}
}

const overwhelmText = `🌱 **Take a breath** - feeling overwhelmed is normal! Try this:

1️⃣ **Brain dump**: Add any floating thoughts as todos
2️⃣ **Prioritize ruthlessly**: What absolutely must happen today?
3️⃣ **Start small**: Pick the easiest task to build momentum
4️⃣ **Break it down**: Turn big tasks into smaller, manageable steps

You don't have to do everything at once. One step at a time! 🌟`

func respondOverwhelm(_ *Responder, _ *chatContext) string {
	return overwhelmText
}

const funText = `🎮 **Gamify your productivity!**

🏆 **Challenge yourself**: Complete 3 tasks in a row for a "streak bonus"
⭐ **Point system**: High priority = 3 points, Medium = 2, Low = 1
🎯 **Daily quest**: Set a goal to earn 10 points today
🥇 **Achievement unlocked**: Celebrate when you complete all tasks in a category!

Turn your todo list into your personal productivity game! 🚀`

func respondFun(_ *Responder, _ *chatContext) string {
	return funText
}

var fallbackMessages = []string{
	"🤖 I'm your smart todo assistant! I can analyze your tasks, suggest what to focus on, " +
		"provide productivity tips, and help you stay motivated. What specific help do you need?",
	`💡 I'm here to help you be more productive! Try asking me "What should I focus on?" or ` +
		`"How am I doing?" for personalized insights based on your current todos.`,
	"🎯 I can provide intelligent insights about your tasks! Ask me about your progress, " +
		"what to prioritize, or request productivity tips tailored to your current workload.",
}
