package boarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/config"
)

func TestDefaultDirectory(t *testing.T) {
	d := Default()

	pts := d.BoardingPoints("dhaka")
	require.Len(t, pts, 5)
	assert.Equal(t, "Sayedabad Bus Terminal", pts[0].Name)
	assert.Equal(t, "07:30 AM", pts[0].Time)

	assert.Len(t, d.DroppingPoints(" Rajshahi "), 4)
	assert.Equal(t, []string{"Chittagong", "Dhaka", "Rajshahi", "Sylhet"}, d.Cities())
}

func TestUnknownCityIsEmpty(t *testing.T) {
	pts := Default().BoardingPoints("Khulna")
	assert.NotNil(t, pts)
	assert.Empty(t, pts)
}

func TestReturnedSlicesAreCopies(t *testing.T) {
	d := Default()
	pts := d.BoardingPoints("Dhaka")
	pts[0].Name = "changed"
	assert.Equal(t, "Sayedabad Bus Terminal", d.BoardingPoints("Dhaka")[0].Name)
}

func TestFromConfig(t *testing.T) {
	d := FromConfig(map[string]config.CityPoints{
		"Khulna": {Boarding: []string{"Sonadanga", " "}, Dropping: []string{"Rupsha"}},
	})

	assert.Equal(t, []Point{{Name: "Sonadanga", Address: "Sonadanga, Khulna"}}, d.BoardingPoints("KHULNA"))
	assert.Equal(t, []Point{{Name: "Rupsha", Address: "Rupsha, Khulna"}}, d.DroppingPoints("khulna"))
	assert.Empty(t, d.BoardingPoints("Dhaka"))

	assert.Equal(t, Default().Cities(), FromConfig(nil).Cities())
}
