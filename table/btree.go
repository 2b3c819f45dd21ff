package table

import (
	"fmt"
	"strings"

	"vqlite/pager"
)

// BTree is the on-disk B+ tree: a root page number plus the pager it
// is built on. The root is always page 0 (spec invariant #6), so no
// separate metadata page is needed to remember it.
type BTree struct {
	Pager       *pager.Pager
	RootPageNum uint32
}

// NewBTree opens the tree rooted at page 0, initialising an empty
// root leaf if the backing file was empty.
func NewBTree(p *pager.Pager) (*BTree, error) {
	t := &BTree{Pager: p, RootPageNum: 0}
	if p.NumPages == 0 {
		pageNum, err := p.AllocatePage()
		if err != nil {
			return nil, err
		}
		page, err := p.GetPage(pageNum)
		if err != nil {
			return nil, err
		}
		initializeLeafNode(page.Data[:])
		setIsRoot(page.Data[:], true)
		page.Dirty = true
	}
	return t, nil
}

// Insert adds key/row to the tree, rejecting duplicates and splitting
// leaves (and, as needed, internal nodes) upward.
func (t *BTree) Insert(key uint32, row Row) error {
	cursor, err := t.TableFind(key)
	if err != nil {
		return err
	}
	page, err := t.Pager.GetPage(cursor.PageNum)
	if err != nil {
		return err
	}
	buf := page.Data[:]
	if cursor.CellNum < leafNumCells(buf) && leafKey(buf, cursor.CellNum) == key {
		return ErrDuplicateKey
	}
	return t.leafInsert(cursor, key, row)
}

func (t *BTree) leafInsert(cursor *Cursor, key uint32, row Row) error {
	page, err := t.Pager.GetPage(cursor.PageNum)
	if err != nil {
		return err
	}
	buf := page.Data[:]
	numCells := leafNumCells(buf)
	if numCells >= LeafMaxCells {
		return t.leafSplitAndInsert(cursor, key, row)
	}

	for i := numCells; i > cursor.CellNum; i-- {
		copy(leafCell(buf, i), leafCell(buf, i-1))
	}
	setLeafNumCells(buf, numCells+1)
	setLeafKey(buf, cursor.CellNum, key)
	if err := SerializeRow(row, leafValue(buf, cursor.CellNum)); err != nil {
		return err
	}
	page.Dirty = true
	return nil
}

// leafCellData holds one materialised (key, value) cell while a split
// redistributes the full leaf.
type leafCellData struct {
	key   uint32
	value [RowSize]byte
}

// leafSplitAndInsert splits a full leaf. Rather than the in-place
// shuffle of a single shared buffer, it materialises the virtual
// sequence of LeafMaxCells+1 cells (spec §4.4) into a scratch array
// first, then writes each half into its own page — the two leaves are
// already separate buffers in this implementation, so there is no
// aliasing hazard to dance around.
func (t *BTree) leafSplitAndInsert(cursor *Cursor, key uint32, row Row) error {
	oldPage, err := t.Pager.GetPage(cursor.PageNum)
	if err != nil {
		return err
	}
	oldBuf := oldPage.Data[:]

	oldMax, err := t.getNodeMaxKey(cursor.PageNum)
	if err != nil {
		return err
	}

	newPageNum, err := t.Pager.AllocatePage()
	if err != nil {
		return err
	}
	newPage, err := t.Pager.GetPage(newPageNum)
	if err != nil {
		return err
	}
	newBuf := newPage.Data[:]
	initializeLeafNode(newBuf)
	setParentPointer(newBuf, getParentPointer(oldBuf))
	setLeafNextLeaf(newBuf, leafNextLeaf(oldBuf))
	setLeafNextLeaf(oldBuf, newPageNum)

	var cells [LeafMaxCells + 1]leafCellData
	numCells := leafNumCells(oldBuf)
	for i := int(numCells); i > int(cursor.CellNum); i-- {
		cells[i].key = leafKey(oldBuf, uint32(i-1))
		copy(cells[i].value[:], leafValue(oldBuf, uint32(i-1)))
	}
	cells[cursor.CellNum].key = key
	if err := SerializeRow(row, cells[cursor.CellNum].value[:]); err != nil {
		return err
	}
	for i := int(cursor.CellNum) - 1; i >= 0; i-- {
		cells[i].key = leafKey(oldBuf, uint32(i))
		copy(cells[i].value[:], leafValue(oldBuf, uint32(i)))
	}

	for i := 0; i < LeafLeftSplitCount; i++ {
		setLeafKey(oldBuf, uint32(i), cells[i].key)
		copy(leafValue(oldBuf, uint32(i)), cells[i].value[:])
	}
	setLeafNumCells(oldBuf, LeafLeftSplitCount)
	oldPage.Dirty = true

	for i := 0; i < LeafRightSplitCount; i++ {
		setLeafKey(newBuf, uint32(i), cells[LeafLeftSplitCount+i].key)
		copy(leafValue(newBuf, uint32(i)), cells[LeafLeftSplitCount+i].value[:])
	}
	setLeafNumCells(newBuf, LeafRightSplitCount)
	newPage.Dirty = true

	if getIsRoot(oldBuf) {
		return t.createNewRoot(newPageNum)
	}

	parentPageNum := getParentPointer(oldBuf)
	newMax, err := t.getNodeMaxKey(cursor.PageNum)
	if err != nil {
		return err
	}
	if err := t.updateInternalNodeKey(parentPageNum, oldMax, newMax); err != nil {
		return err
	}
	return t.internalNodeInsert(parentPageNum, newPageNum)
}

// createNewRoot replaces the root leaf/internal page (always page 0)
// with a fresh internal node whose two children are a copy of the old
// root's contents and the freshly split-off right sibling.
func (t *BTree) createNewRoot(rightChildPageNum uint32) error {
	rootPage, err := t.Pager.GetPage(t.RootPageNum)
	if err != nil {
		return err
	}
	rightPage, err := t.Pager.GetPage(rightChildPageNum)
	if err != nil {
		return err
	}

	leftChildPageNum, err := t.Pager.AllocatePage()
	if err != nil {
		return err
	}
	leftPage, err := t.Pager.GetPage(leftChildPageNum)
	if err != nil {
		return err
	}

	if getNodeType(rootPage.Data[:]) == NodeTypeInternal {
		initializeInternalNode(rightPage.Data[:])
	}

	// Move the old root's contents off page 0 into the new left child.
	leftPage.Data = rootPage.Data
	setIsRoot(leftPage.Data[:], false)
	leftPage.Dirty = true

	if getNodeType(leftPage.Data[:]) == NodeTypeInternal {
		buf := leftPage.Data[:]
		numKeys := internalNumKeys(buf)
		for i := uint32(0); i < numKeys; i++ {
			if err := t.setNodeParent(internalChild(buf, i), leftChildPageNum); err != nil {
				return err
			}
		}
		if err := t.setNodeParent(internalRightChild(buf), leftChildPageNum); err != nil {
			return err
		}
	}

	initializeInternalNode(rootPage.Data[:])
	setIsRoot(rootPage.Data[:], true)
	setInternalNumKeys(rootPage.Data[:], 1)
	setInternalChild(rootPage.Data[:], 0, leftChildPageNum)

	leftMax, err := t.getNodeMaxKey(leftChildPageNum)
	if err != nil {
		return err
	}
	setInternalKey(rootPage.Data[:], 0, leftMax)
	setInternalRightChild(rootPage.Data[:], rightChildPageNum)
	rootPage.Dirty = true

	setParentPointer(leftPage.Data[:], t.RootPageNum)
	leftPage.Dirty = true
	setParentPointer(rightPage.Data[:], t.RootPageNum)
	rightPage.Dirty = true

	return nil
}

// internalNodeInsert splices a (childPage, maxKey) separator into
// parent, splitting it if it is already full.
func (t *BTree) internalNodeInsert(parentPageNum, childPageNum uint32) error {
	parentPage, err := t.Pager.GetPage(parentPageNum)
	if err != nil {
		return err
	}
	parentBuf := parentPage.Data[:]

	childMax, err := t.getNodeMaxKey(childPageNum)
	if err != nil {
		return err
	}

	numKeys := internalNumKeys(parentBuf)
	if numKeys >= InternalMaxCells {
		return t.internalNodeSplitAndInsert(parentPageNum, childPageNum)
	}

	index := internalFindChildIndex(parentBuf, numKeys, childMax)

	rightChildPageNum := internalRightChild(parentBuf)
	if rightChildPageNum == invalidPage {
		setInternalRightChild(parentBuf, childPageNum)
		parentPage.Dirty = true
		return nil
	}

	rightMax, err := t.getNodeMaxKey(rightChildPageNum)
	if err != nil {
		return err
	}

	setInternalNumKeys(parentBuf, numKeys+1)
	if childMax > rightMax {
		setInternalChild(parentBuf, numKeys, rightChildPageNum)
		setInternalKey(parentBuf, numKeys, rightMax)
		setInternalRightChild(parentBuf, childPageNum)
	} else {
		for i := numKeys; i > index; i-- {
			setInternalChild(parentBuf, i, internalChild(parentBuf, i-1))
			setInternalKey(parentBuf, i, internalKey(parentBuf, i-1))
		}
		setInternalChild(parentBuf, index, childPageNum)
		setInternalKey(parentBuf, index, childMax)
	}
	parentPage.Dirty = true
	return nil
}

// internalNodeSplitAndInsert splits a full internal node. The old
// right_child is folded into the new sibling first, then the top half
// of stored (child, key) cells follow it; the old node's new
// right_child becomes what had been its last remaining cell. The
// incoming child then lands on whichever side its key sorts into, and
// the separator promoted to the grandparent is the max key of the
// left half — the rule spec.md §4.4's open question asks
// implementers to pick.
func (t *BTree) internalNodeSplitAndInsert(parentPageNum, childPageNum uint32) error {
	oldPageNum := parentPageNum
	oldPage, err := t.Pager.GetPage(oldPageNum)
	if err != nil {
		return err
	}
	oldBuf := oldPage.Data[:]

	oldMax, err := t.getNodeMaxKey(oldPageNum)
	if err != nil {
		return err
	}
	childMax, err := t.getNodeMaxKey(childPageNum)
	if err != nil {
		return err
	}

	newPageNum, err := t.Pager.AllocatePage()
	if err != nil {
		return err
	}

	splittingRoot := getIsRoot(oldBuf)

	var parentOfOld uint32
	if splittingRoot {
		if err := t.createNewRoot(newPageNum); err != nil {
			return err
		}
		rootPage, err := t.Pager.GetPage(t.RootPageNum)
		if err != nil {
			return err
		}
		oldPageNum = internalChild(rootPage.Data[:], 0)
		oldPage, err = t.Pager.GetPage(oldPageNum)
		if err != nil {
			return err
		}
		oldBuf = oldPage.Data[:]
		parentOfOld = t.RootPageNum
	} else {
		parentOfOld = getParentPointer(oldBuf)
		newPage, err := t.Pager.GetPage(newPageNum)
		if err != nil {
			return err
		}
		initializeInternalNode(newPage.Data[:])
		newPage.Dirty = true
	}

	// Fold the old right_child into the new sibling first.
	curPageNum := internalRightChild(oldBuf)
	if err := t.internalNodeInsert(newPageNum, curPageNum); err != nil {
		return err
	}
	if err := t.setNodeParent(curPageNum, newPageNum); err != nil {
		return err
	}
	setInternalRightChild(oldBuf, invalidPage)

	numKeys := internalNumKeys(oldBuf)
	for i := int(InternalMaxCells) - 1; i > int(InternalMaxCells)/2; i-- {
		curPageNum = internalChild(oldBuf, uint32(i))
		if err := t.internalNodeInsert(newPageNum, curPageNum); err != nil {
			return err
		}
		if err := t.setNodeParent(curPageNum, newPageNum); err != nil {
			return err
		}
		numKeys--
	}
	setInternalNumKeys(oldBuf, numKeys)

	// Promote the old node's new last cell into its right_child slot.
	setInternalRightChild(oldBuf, internalChild(oldBuf, numKeys-1))
	numKeys--
	setInternalNumKeys(oldBuf, numKeys)
	oldPage.Dirty = true

	maxAfterSplit, err := t.getNodeMaxKey(oldPageNum)
	if err != nil {
		return err
	}

	destPageNum := newPageNum
	if childMax < maxAfterSplit {
		destPageNum = oldPageNum
	}
	if err := t.internalNodeInsert(destPageNum, childPageNum); err != nil {
		return err
	}
	if err := t.setNodeParent(childPageNum, destPageNum); err != nil {
		return err
	}

	newMax, err := t.getNodeMaxKey(oldPageNum)
	if err != nil {
		return err
	}
	if err := t.updateInternalNodeKey(parentOfOld, oldMax, newMax); err != nil {
		return err
	}

	if !splittingRoot {
		if err := t.internalNodeInsert(parentOfOld, newPageNum); err != nil {
			return err
		}
		if err := t.setNodeParent(newPageNum, parentOfOld); err != nil {
			return err
		}
	}
	return nil
}

func (t *BTree) updateInternalNodeKey(pageNum uint32, oldKey, newKey uint32) error {
	page, err := t.Pager.GetPage(pageNum)
	if err != nil {
		return err
	}
	buf := page.Data[:]
	numKeys := internalNumKeys(buf)
	idx := internalFindChildIndex(buf, numKeys, oldKey)
	setInternalKey(buf, idx, newKey)
	page.Dirty = true
	return nil
}

func (t *BTree) setNodeParent(pageNum, parent uint32) error {
	page, err := t.Pager.GetPage(pageNum)
	if err != nil {
		return err
	}
	setParentPointer(page.Data[:], parent)
	page.Dirty = true
	return nil
}

// getNodeMaxKey returns the maximum key reachable through pageNum: for
// a leaf, its last cell's key; for an internal node, the max key of
// its rightmost child.
func (t *BTree) getNodeMaxKey(pageNum uint32) (uint32, error) {
	page, err := t.Pager.GetPage(pageNum)
	if err != nil {
		return 0, err
	}
	buf := page.Data[:]
	if getNodeType(buf) == NodeTypeLeaf {
		numCells := leafNumCells(buf)
		return leafKey(buf, numCells-1), nil
	}
	return t.getNodeMaxKey(internalRightChild(buf))
}

// readRow deserialises the row at the cursor's current position.
func (t *BTree) readRow(cursor *Cursor) (Row, error) {
	page, err := t.Pager.GetPage(cursor.PageNum)
	if err != nil {
		return Row{}, err
	}
	return DeserializeRow(leafValue(page.Data[:], cursor.CellNum))
}

// PrintTree renders the tree depth-first, pre-order, in the exact
// textual layout spec.md §4.4 pins for `.btree`.
func (t *BTree) PrintTree() (string, error) {
	var sb strings.Builder
	sb.WriteString("Tree: \n")
	if err := t.printNode(&sb, t.RootPageNum, 0); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (t *BTree) printNode(sb *strings.Builder, pageNum uint32, level int) error {
	page, err := t.Pager.GetPage(pageNum)
	if err != nil {
		return err
	}
	buf := page.Data[:]

	if getNodeType(buf) == NodeTypeLeaf {
		numCells := leafNumCells(buf)
		writeIndent(sb, level)
		fmt.Fprintf(sb, "- leaf (size %d)\n", numCells)
		for i := uint32(0); i < numCells; i++ {
			writeIndent(sb, level+1)
			fmt.Fprintf(sb, "%d\n", leafKey(buf, i))
		}
		return nil
	}

	numKeys := internalNumKeys(buf)
	writeIndent(sb, level)
	fmt.Fprintf(sb, "- internal (size %d)\n", numKeys)
	for i := uint32(0); i < numKeys; i++ {
		child := internalChild(buf, i)
		if err := t.printNode(sb, child, level+1); err != nil {
			return err
		}
		writeIndent(sb, level+1)
		fmt.Fprintf(sb, "- key %d\n", internalKey(buf, i))
	}
	return t.printNode(sb, internalRightChild(buf), level+1)
}

func writeIndent(sb *strings.Builder, level int) {
	for i := 0; i < level; i++ {
		sb.WriteByte(' ')
	}
}
