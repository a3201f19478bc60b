package calcgraph_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/hweiss/calcgraph/pkg/calcgraph"
)

func ExampleGraph_compute() {
	// Compute a*b + c.
	g := calcgraph.New[int]()
	a := g.InsertNode("a", func([]int) int { return 5 })
	b := g.InsertNode("b", func([]int) int { return 4 })
	c := g.InsertNode("c", func([]int) int { return 3 })
	mult := g.InsertNode("mult", func(in []int) int { return in[0] * in[1] })
	add := g.InsertNode("add", func(in []int) int { return in[0] + in[1] })

	_ = g.SetInputs(mult, []calcgraph.Handle{a, b})
	_ = g.SetInputs(add, []calcgraph.Handle{mult, c})
	_ = g.DesignateOutput(add)

	v, err := g.Compute(context.Background())
	if err != nil {
		panic(err)
	}
	fmt.Println(v)
	// Output: 23
}

func ExampleGraph_cycle() {
	g := calcgraph.New[int]()
	one := g.InsertNode("one", func([]int) int { return 1 })
	two := g.InsertNode("two", func(in []int) int { return in[0] })
	_ = g.SetInputs(one, []calcgraph.Handle{two})
	_ = g.SetInputs(two, []calcgraph.Handle{one})
	_ = g.DesignateOutput(one)

	_, err := g.Compute(context.Background())
	fmt.Println(errors.Is(err, calcgraph.ErrCycle))
	// Output: true
}
