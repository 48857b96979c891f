package task

// Category is one of the fixed kanban routing categories. The values are the
// literal column names used on the Kaiten boards and in the extraction
// prompt, so they are not translated.
type Category string

const (
	// CategoryThisMonth holds tasks without a clear deadline. It is also the
	// fallback when the model emits an unknown category.
	CategoryThisMonth Category = "Этот месяц"
	// CategoryToday holds urgent / same-day tasks.
	CategoryToday Category = "Этот день"
	// CategoryScheduled holds tasks planned for a concrete future date.
	CategoryScheduled Category = "Запланировано на конкретную дату"
	// CategoryDelegatedToMe holds tasks somebody assigned to the user.
	CategoryDelegatedToMe Category = "Делегировано мне"
	// CategoryDelegatedOut holds tasks the user assigned to somebody else.
	CategoryDelegatedOut Category = "Делегировал исполнителю"
)

// CategoryFallback is used whenever intent is ambiguous or the extracted
// category is not a member of the fixed set.
const CategoryFallback = CategoryThisMonth

// Categories returns all members of the fixed category set, in prompt order.
func Categories() []Category {
	return []Category{
		CategoryThisMonth,
		CategoryToday,
		CategoryScheduled,
		CategoryDelegatedToMe,
		CategoryDelegatedOut,
	}
}

// Valid reports whether c is a member of the fixed category set.
func (c Category) Valid() bool {
	switch c {
	case CategoryThisMonth, CategoryToday, CategoryScheduled,
		CategoryDelegatedToMe, CategoryDelegatedOut:
		return true
	default:
		return false
	}
}

// ParseCategory clamps arbitrary model output to the fixed category set,
// returning the fallback for anything unrecognized.
func ParseCategory(s string) Category {
	c := Category(s)
	if c.Valid() {
		return c
	}
	return CategoryFallback
}
