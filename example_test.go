package colfilter_test

import (
	"context"
	"fmt"

	"github.com/hupe1980/colfilter"
	"github.com/hupe1980/colfilter/rule"
	"github.com/hupe1980/colfilter/value"
)

type product struct {
	Name  string
	Price any
}

func Example() {
	rows := []any{
		product{Name: "anvil", Price: 120},
		product{Name: "rope", Price: "15"},
		product{Name: "rocket", Price: 990},
		product{Name: "decoy", Price: nil},
	}

	eng := colfilter.New()
	price, err := eng.AddColumn("price", func(row any) any {
		return row.(product).Price
	}, value.TypeNumber)
	if err != nil {
		panic(err)
	}

	t := price.Groups()[0].Templates[0]
	t.SetOperator(rule.OpBetween)
	t.SetValue(10)
	t.SetSecondaryValue(150)

	keep, err := eng.FilterRows(context.Background(), rows)
	if err != nil {
		panic(err)
	}
	for _, i := range keep {
		fmt.Println(rows[i].(product).Name)
	}
	// Output:
	// anvil
	// rope
}

func ExampleEngine_Optimize() {
	all := []value.Value{
		value.Number(1), value.Number(2), value.Number(3),
		value.Number(4), value.Number(5),
	}
	selected := all[:4]

	eng := colfilter.New()
	res := eng.Optimize(all, selected, value.TypeNumber)
	fmt.Println(res.Pattern, res.Rules[0].Operator)
	// Output:
	// SingleValue notEquals
}
